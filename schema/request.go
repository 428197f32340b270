package schema

import (
	"time"
)

const (
	RequestCollection = "requests"
	RequestTable      = "pickup_requests"
)

const (
	StatusPending   = "Pending"
	StatusCollected = "Collected"
	StatusCompleted = "Completed"
)

// PickupRequest is a single waste pickup submission. Mongo keeps it in the
// store's own document shape with a native ObjectID.
type PickupRequest struct {
	ID          string    `json:"_id" gorm:"primary_key"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Phone       string    `json:"phone"`
	Description string    `json:"description"`
	Date        string    `json:"date"`
	Location    string    `json:"location"`
	Image       string    `json:"image"`
	Status      string    `json:"status" sql:"default:'Pending'"`
	CreatedAt   time.Time `json:"createdAt" gorm:"index"`
}

// TableName is the table used by the orm store
func (PickupRequest) TableName() string {
	return RequestTable
}

// PickupRequestInput holds the caller supplied fields of a new request.
// Anything a caller sends outside these fields is not persisted.
type PickupRequestInput struct {
	Name        string `json:"name" form:"name"`
	Email       string `json:"email" form:"email"`
	Phone       string `json:"phone" form:"phone"`
	Description string `json:"description" form:"description"`
	Date        string `json:"date" form:"date"`
	Location    string `json:"location" form:"location"`
}

// NewPickupRequest returns a pending request without image. ID and CreatedAt
// are assigned by the store on insert.
func NewPickupRequest(in PickupRequestInput) *PickupRequest {
	return &PickupRequest{
		Name:        in.Name,
		Email:       in.Email,
		Phone:       in.Phone,
		Description: in.Description,
		Date:        in.Date,
		Location:    in.Location,
		Image:       "",
		Status:      StatusPending,
	}
}
