package model

import "time"

// Exit is a recorded withdrawal of stock. The material fields are a snapshot
// taken at exit time; the item may have changed or been deleted since.
type Exit struct {
	ID               int64  `json:"id"`
	MaterialID       int64  `json:"materialId"`
	MaterialName     string `json:"materialName"`
	MaterialCode     string `json:"materialCode"`
	MaterialLocation string `json:"materialLocation"`
	MaterialType     string `json:"materialType"`
	Quantity         int    `json:"quantity"`
	RemainingStock   int    `json:"remainingStock"`

	PersonName     string `json:"personName"`
	PersonLastName string `json:"personLastName"`

	Area       string `json:"area"`
	CostCenter string `json:"ceco,omitempty"`
	SAPCode    string `json:"sapCode,omitempty"`
	WorkOrder  string `json:"workOrder,omitempty"`

	ExitDate  string    `json:"exitDate"`
	ExitTime  string    `json:"exitTime"`
	CreatedAt time.Time `json:"createdAt"`
}

// ExitRequest is what a technician submits when withdrawing material.
type ExitRequest struct {
	MaterialID     int64  `json:"materialId"`
	Quantity       int    `json:"quantity"`
	PersonName     string `json:"personName"`
	PersonLastName string `json:"personLastName"`
	Area           string `json:"area"`
	CostCenter     string `json:"ceco,omitempty"`
	SAPCode        string `json:"sapCode,omitempty"`
	WorkOrder      string `json:"workOrder,omitempty"`
}
