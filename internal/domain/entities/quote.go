package entities

import "time"

// QuoteStatus represents the lifecycle state of a quote
type QuoteStatus string

const (
	QuoteStatusDraft     QuoteStatus = "draft"
	QuoteStatusPending   QuoteStatus = "pending"
	QuoteStatusQuoted    QuoteStatus = "quoted"
	QuoteStatusAccepted  QuoteStatus = "accepted"
	QuoteStatusDeclined  QuoteStatus = "declined"
	QuoteStatusCancelled QuoteStatus = "cancelled"
)

// Quote represents a freight shipping quote request and its negotiated outcome.
// Once a quote reaches a terminal status it is treated as immutable history and
// the matching engine only reads it.
type Quote struct {
	ID            string      `json:"id" db:"id"`
	Reference     string      `json:"reference" db:"reference"`
	CustomerEmail string      `json:"customer_email" db:"customer_email"`
	// SourceMessageID links back to the mail-provider message the quote
	// request arrived on; nil for quotes entered directly.
	SourceMessageID *string `json:"source_message_id,omitempty" db:"source_message_id"`
	Origin        Location    `json:"origin" db:"-"`
	Destination   Location    `json:"destination" db:"-"`
	CargoDesc     string      `json:"cargo_description" db:"cargo_description"`
	WeightKg      *float64    `json:"weight_kg,omitempty" db:"weight_kg"`
	LengthCm      *float64    `json:"length_cm,omitempty" db:"length_cm"`
	WidthCm       *float64    `json:"width_cm,omitempty" db:"width_cm"`
	HeightCm      *float64    `json:"height_cm,omitempty" db:"height_cm"`
	UnitOfMeasure string      `json:"unit_of_measure" db:"unit_of_measure"`
	PieceCount    *int        `json:"piece_count,omitempty" db:"piece_count"`
	ServiceType   string      `json:"service_type" db:"service_type"`
	Hazmat        *bool       `json:"hazmat,omitempty" db:"hazmat"`
	Status        QuoteStatus `json:"status" db:"status"`
	InitialPrice  *float64    `json:"initial_price,omitempty" db:"initial_price"`
	FinalPrice    *float64    `json:"final_price,omitempty" db:"final_price"`
	CreatedAt     time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at" db:"updated_at"`
}

// Location represents one endpoint of a shipping lane. City/country are what
// customers enter; the coordinates are optional and only set when the address
// has been geocoded upstream.
type Location struct {
	City      string   `json:"city" db:"city"`
	State     string   `json:"state" db:"state"`
	Country   string   `json:"country" db:"country"`
	Latitude  *float64 `json:"latitude,omitempty" db:"latitude"`
	Longitude *float64 `json:"longitude,omitempty" db:"longitude"`
}

// AgreedPrice returns the price a prior quote actually settled on: the final
// agreed price when present, otherwise the initial offer. Returns nil when the
// quote carries no usable price at all.
func (q *Quote) AgreedPrice() *float64 {
	if q.FinalPrice != nil {
		return q.FinalPrice
	}
	return q.InitialPrice
}
