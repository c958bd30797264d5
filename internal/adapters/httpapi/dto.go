package httpapi

import (
	"time"

	"github.com/tripcrew/tripcrew-api/internal/app/trips"
	"github.com/tripcrew/tripcrew-api/internal/domain"
)

type userDTO struct {
	ID              string     `json:"id"`
	Name            string     `json:"name"`
	Email           string     `json:"email"`
	EmailVerifiedAt *time.Time `json:"emailVerifiedAt,omitempty"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`
}

func userFromDomain(u domain.User) userDTO {
	return userDTO{
		ID:              string(u.ID),
		Name:            u.Name,
		Email:           u.Email,
		EmailVerifiedAt: u.EmailVerifiedAt,
		CreatedAt:       u.CreatedAt,
		UpdatedAt:       u.UpdatedAt,
	}
}

type userSummaryDTO struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

func userSummaryFromDomain(u domain.UserSummary) userSummaryDTO {
	return userSummaryDTO{ID: string(u.ID), Name: u.Name, Email: u.Email}
}

type tripDTO struct {
	ID          string     `json:"id"`
	CreatorID   string     `json:"creatorId"`
	Name        string     `json:"name"`
	Description *string    `json:"description,omitempty"`
	StartDate   *time.Time `json:"startDate,omitempty"`
	EndDate     *time.Time `json:"endDate,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

func tripFromDomain(t domain.Trip) tripDTO {
	return tripDTO{
		ID:          string(t.ID),
		CreatorID:   string(t.CreatorID),
		Name:        t.Name,
		Description: t.Description,
		StartDate:   t.StartDate,
		EndDate:     t.EndDate,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

type tripSummaryDTO struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Description *string        `json:"description,omitempty"`
	StartDate   *time.Time     `json:"startDate,omitempty"`
	EndDate     *time.Time     `json:"endDate,omitempty"`
	Creator     userSummaryDTO `json:"creator"`
}

type inviteViewDTO struct {
	ID        string         `json:"id"`
	Status    string         `json:"status"`
	CreatedAt time.Time      `json:"createdAt"`
	Trip      tripSummaryDTO `json:"trip"`
	Sender    userSummaryDTO `json:"sender"`
}

func inviteViewFromDomain(v domain.InviteView) inviteViewDTO {
	return inviteViewDTO{
		ID:        string(v.ID),
		Status:    string(v.Status),
		CreatedAt: v.CreatedAt,
		Trip: tripSummaryDTO{
			ID:          string(v.Trip.ID),
			Name:        v.Trip.Name,
			Description: v.Trip.Description,
			StartDate:   v.Trip.StartDate,
			EndDate:     v.Trip.EndDate,
			Creator:     userSummaryFromDomain(v.Trip.Creator),
		},
		Sender: userSummaryFromDomain(v.Sender),
	}
}

type memberDTO struct {
	MemberID string         `json:"memberId"`
	AddedAt  time.Time      `json:"addedAt"`
	User     userSummaryDTO `json:"user"`
}

func memberFromView(m trips.MemberView) memberDTO {
	return memberDTO{
		MemberID: string(m.MemberID),
		AddedAt:  m.AddedAt,
		User:     userSummaryFromDomain(m.User),
	}
}
