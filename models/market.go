package models

import (
	"encoding/json"

	"gorm.io/gorm"
)

// Market is the durable record of an engine market. The engine owns the
// live state; this row is the snapshot the persistence collaborator keeps.
type Market struct {
	gorm.Model
	ID          int64  `json:"id" gorm:"primary_key"`
	MarketID    string `json:"marketId" gorm:"unique;not null;index"`
	Title       string `json:"title" gorm:"not null;size:160"`
	Description string `json:"description" gorm:"size:2000"`

	// Outcomes is the fixed outcome label list, JSON-encoded. The count
	// never changes after creation.
	Outcomes     string `json:"-" gorm:"not null"`
	OutcomeCount int    `json:"outcomeCount" gorm:"not null"`

	// Mode mirrors the engine's last known authoritative mechanism.
	Mode string `json:"mode" gorm:"default:amm;size:10"`

	CreatorName string `json:"creatorName" gorm:"size:50;index"`
}

// OutcomeLabels decodes the stored outcome list.
func (m *Market) OutcomeLabels() []string {
	var labels []string
	if err := json.Unmarshal([]byte(m.Outcomes), &labels); err != nil {
		return nil
	}
	return labels
}

// SetOutcomeLabels encodes and stores the outcome list.
func (m *Market) SetOutcomeLabels(labels []string) error {
	raw, err := json.Marshal(labels)
	if err != nil {
		return err
	}
	m.Outcomes = string(raw)
	m.OutcomeCount = len(labels)
	return nil
}

// MarketPublic is the public-facing market shape.
type MarketPublic struct {
	MarketID     string   `json:"marketId"`
	Title        string   `json:"title"`
	Description  string   `json:"description,omitempty"`
	Outcomes     []string `json:"outcomes"`
	OutcomeCount int      `json:"outcomeCount"`
	Mode         string   `json:"mode"`
	CreatorName  string   `json:"creatorName,omitempty"`
}

// ToPublic converts Market to MarketPublic.
func (m *Market) ToPublic() MarketPublic {
	return MarketPublic{
		MarketID:     m.MarketID,
		Title:        m.Title,
		Description:  m.Description,
		Outcomes:     m.OutcomeLabels(),
		OutcomeCount: m.OutcomeCount,
		Mode:         m.Mode,
		CreatorName:  m.CreatorName,
	}
}
