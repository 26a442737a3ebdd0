package telemetry

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Models lists every table the store migrates
var Models = []any{
	&Session{},
	&Sample{},
}

// Session is one program run from engine spawn to exit
type Session struct {
	gorm.Model
	StartedAt time.Time `json:"startedAt" gorm:"index"`
	EndedAt   *time.Time
	Config    datatypes.JSON `json:"config"`

	Frames    int64   `json:"frames"`
	MaxSpeed  float64 `json:"maxSpeed"`
	Distance  float64 `json:"distance"` // horizontal metres driven
	Brakes    int     `json:"brakes"`
	Skids     int     `json:"skids"`
	TurboUses int     `json:"turboUses"`

	Samples []Sample `json:"-"`
}

// Sample is a periodic snapshot of the car
type Sample struct {
	ID        uint      `gorm:"primarykey"`
	SessionID uint      `json:"sessionId" gorm:"index"`
	Tick      int64     `json:"tick"`
	At        time.Time `json:"at"`

	Speed        float64 `json:"speed"`
	PosX         float64 `json:"posX"`
	PosY         float64 `json:"posY"`
	PosZ         float64 `json:"posZ"`
	Steering     float64 `json:"steering"`
	Acceleration float64 `json:"acceleration"`
	EngineOn     bool    `json:"engineOn"`
	Turbo        bool    `json:"turbo"`
}
