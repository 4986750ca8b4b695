package models

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrEmptySnapshot reports a snapshot that is JSON null or carries none of
// the dataset collections.
var ErrEmptySnapshot = errors.New("models: snapshot has no collections")

var datasetKeys = []string{"salesReps", "clients", "products", "orders", "pendingOrders"}

// Dataset is the full contents of the store. Its JSON form is the snapshot
// written to the persistence channel.
type Dataset struct {
	SalesReps     []SalesRep         `json:"salesReps"`
	Clients       []Client           `json:"clients"`
	Products      []Product          `json:"products"`
	Orders        []Order            `json:"orders"`
	PendingOrders []PendingOrderNote `json:"pendingOrders"`
}

// EncodeDataset serializes d to its snapshot form.
func EncodeDataset(d Dataset) ([]byte, error) {
	d.normalize()
	data, err := json.Marshal(d)
	if err != nil {
		return nil, fmt.Errorf("models: encode dataset: %w", err)
	}
	return data, nil
}

// DecodeDataset parses a snapshot. Missing collections decode as empty, but
// at least one must be present.
func DecodeDataset(data []byte) (Dataset, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return Dataset{}, fmt.Errorf("models: decode dataset: %w", err)
	}
	if !hasAnyKey(fields, datasetKeys) {
		return Dataset{}, ErrEmptySnapshot
	}
	var d Dataset
	if err := json.Unmarshal(data, &d); err != nil {
		return Dataset{}, fmt.Errorf("models: decode dataset: %w", err)
	}
	d.normalize()
	for i := range d.Orders {
		if d.Orders[i].Items == nil {
			d.Orders[i].Items = []OrderItem{}
		}
	}
	return d, nil
}

// normalize replaces nil collections with empty ones. It only touches the
// top-level slice headers, never shared elements.
func (d *Dataset) normalize() {
	if d.SalesReps == nil {
		d.SalesReps = []SalesRep{}
	}
	if d.Clients == nil {
		d.Clients = []Client{}
	}
	if d.Products == nil {
		d.Products = []Product{}
	}
	if d.Orders == nil {
		d.Orders = []Order{}
	}
	if d.PendingOrders == nil {
		d.PendingOrders = []PendingOrderNote{}
	}
}

func hasAnyKey(fields map[string]json.RawMessage, keys []string) bool {
	for _, k := range keys {
		if _, ok := fields[k]; ok {
			return true
		}
	}
	return false
}
