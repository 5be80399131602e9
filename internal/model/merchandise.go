package model

import (
	"slices"
	"time"
)

// MerchStatus tracks a merchandise order.
type MerchStatus string

// Merchandise statuses.
const (
	MerchStatusDraft    MerchStatus = "draft"
	MerchStatusOrdered  MerchStatus = "ordered"
	MerchStatusReceived MerchStatus = "received"
)

// Valid reports whether s is one of the known statuses.
func (s MerchStatus) Valid() bool {
	switch s {
	case MerchStatusDraft, MerchStatusOrdered, MerchStatusReceived:
		return true
	}
	return false
}

// MerchandiseItem is merch sold at an event.
type MerchandiseItem struct {
	ID           string         `json:"id"`
	Name         string         `json:"name" validate:"required,max=200"`
	Description  string         `json:"description,omitempty"`
	Price        float64        `json:"price" validate:"gte=0"`
	ImageURL     string         `json:"imageUrl,omitempty"`
	Variants     []MerchVariant `json:"variants,omitempty" validate:"dive"`
	Status       MerchStatus    `json:"status" validate:"omitempty,merchstatus"`
	OrderDetails *OrderDetails  `json:"orderDetails,omitempty"`
}

// MerchVariant is one size/color combination of a merchandise item.
type MerchVariant struct {
	Size     string `json:"size,omitempty"`
	Color    string `json:"color,omitempty"`
	Quantity int    `json:"quantity" validate:"gte=0"`
}

// OrderDetails records where a merchandise order stands.
type OrderDetails struct {
	OrderID          string `json:"orderId,omitempty"`
	OrderDate        string `json:"orderDate,omitempty"`
	ExpectedDelivery string `json:"expectedDelivery,omitempty"`
}

// Clone returns a deep copy of m.
func (m MerchandiseItem) Clone() MerchandiseItem {
	m.Variants = slices.Clone(m.Variants)
	m.OrderDetails = clonePtr(m.OrderDetails)
	return m
}

// RentalStatus tracks an equipment rental.
type RentalStatus string

// Rental statuses.
const (
	RentalStatusPending   RentalStatus = "pending"
	RentalStatusConfirmed RentalStatus = "confirmed"
	RentalStatusPickedUp  RentalStatus = "picked-up"
	RentalStatusReturned  RentalStatus = "returned"
)

// Valid reports whether s is one of the known statuses.
func (s RentalStatus) Valid() bool {
	switch s {
	case RentalStatusPending, RentalStatusConfirmed, RentalStatusPickedUp, RentalStatusReturned:
		return true
	}
	return false
}

// EquipmentRental is gear hired from a supplier for an event.
type EquipmentRental struct {
	ID              string       `json:"id"`
	Name            string       `json:"name" validate:"required,max=200"`
	Description     string       `json:"description,omitempty"`
	Quantity        int          `json:"quantity" validate:"gte=1"`
	PickupDate      time.Time    `json:"pickupDate"`
	ReturnDate      time.Time    `json:"returnDate" validate:"gtefield=PickupDate"`
	Delivery        bool         `json:"delivery"`
	DeliveryAddress string       `json:"deliveryAddress,omitempty" validate:"required_if=Delivery true"`
	Supplier        Supplier     `json:"supplier"`
	Status          RentalStatus `json:"status" validate:"omitempty,rentalstatus"`
	Cost            float64      `json:"cost" validate:"gte=0"`
}

// Supplier is the rental company.
type Supplier struct {
	Name    string `json:"name" validate:"required"`
	Contact string `json:"contact" validate:"required"`
	Phone   string `json:"phone,omitempty"`
}
