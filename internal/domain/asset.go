package domain

import (
	"time"

	"github.com/google/uuid"
)

// Item is a throwable asset
type Item struct {
	ID             uuid.UUID   `json:"id"`
	Name           string      `json:"name"`
	ImageSrc       string      `json:"image_src"`
	Scale          float64     `json:"scale"`
	Weight         float64     `json:"weight"`
	Pixelate       bool        `json:"pixelate"`
	ImpactSoundIDs []uuid.UUID `json:"impact_sound_ids"`
	CreatedAt      time.Time   `json:"created_at"`
}

// Sound is a playable audio asset
type Sound struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Src       string    `json:"src"`
	Volume    float64   `json:"volume"`
	CreatedAt time.Time `json:"created_at"`
}

// Defaults applied to items created without a scale or weight
const (
	DefaultItemScale  = 1.0
	DefaultItemWeight = 1.0
)

// ItemBundle is a set of items together with every impact sound they reference
type ItemBundle struct {
	Items        []Item  `json:"items"`
	ImpactSounds []Sound `json:"impact_sounds"`
}
