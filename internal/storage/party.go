package storage

import (
	"errors"
	"time"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")
)

type Party struct {
	Name      string `json:"name"`
	PartyName string `json:"party_name"`
	IsParty   bool   `json:"is_party"`
}

type Broker struct {
	Name          string    `json:"name"`
	BrokerName    string    `json:"broker_name"`
	ItemName      string    `json:"item_name"`
	ItemRate      float64   `json:"item_rate"`
	Taxes         float64   `json:"taxes"`
	VehicleNumber string    `json:"vehicle_number"`
	DocStatus     int       `json:"docstatus"`
	CreatedAt     time.Time `json:"creation"`
}
