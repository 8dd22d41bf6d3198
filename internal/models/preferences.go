package models

import (
	"encoding/json"
	"fmt"
	"strings"
)

// JobCategory is a kind of work a user is interested in. Stored by id, serialized by name.
type JobCategory int

const (
	JobCategoryAll JobCategory = iota
	JobCategoryPlumber
	JobCategoryElectrician
	JobCategoryCarpenter
	JobCategoryPainter
	JobCategoryMechanic
	JobCategoryLocksmith
	JobCategoryHandyman
	JobCategoryCleaner
	JobCategoryGardener
	JobCategoryHairdresser
	JobCategoryMakeupArtist
	JobCategoryMassageTherapist
	JobCategoryDeliveryDriver
)

var jobCategoryNames = []string{
	"ALL",
	"PLUMBER",
	"ELECTRICIAN",
	"CARPENTER",
	"PAINTER",
	"MECHANIC",
	"LOCKSMITH",
	"HANDYMAN",
	"CLEANER",
	"GARDENER",
	"HAIRDRESSER",
	"MAKEUP_ARTIST",
	"MASSAGE_THERAPIST",
	"DELIVERY_DRIVER",
}

// JobCategoryFromID converts a stored id into a JobCategory
func JobCategoryFromID(id int) (JobCategory, error) {
	if id < 0 || id >= len(jobCategoryNames) {
		return 0, fmt.Errorf("%w: invalid JobCategory id: %d", ErrInvalidArgument, id)
	}
	return JobCategory(id), nil
}

// JobCategoryFromName parses a category name, case-insensitively
func JobCategoryFromName(name string) (JobCategory, error) {
	for id, n := range jobCategoryNames {
		if strings.EqualFold(n, name) {
			return JobCategory(id), nil
		}
	}
	return 0, fmt.Errorf("%w: invalid JobCategory: %q", ErrInvalidArgument, name)
}

func (c JobCategory) ID() int { return int(c) }

func (c JobCategory) String() string {
	if c < 0 || int(c) >= len(jobCategoryNames) {
		return fmt.Sprintf("JobCategory(%d)", int(c))
	}
	return jobCategoryNames[c]
}

func (c JobCategory) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

func (c *JobCategory) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	parsed, err := JobCategoryFromName(name)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// WantedCategoryID is the composite key of a wanted category row.
type WantedCategoryID struct {
	PreferencesID int64
	CategoryID    JobCategory
}

// Preferences is one-to-one with a user; UserID is both key and foreign key.
type Preferences struct {
	UserID              int64
	PreferredDistance   float64
	PreferredExperience int
	WantedCategories    []JobCategory
}

// WantedCategoryIDs returns the composite keys for p, dropping duplicate categories
// while keeping the first occurrence order.
func (p *Preferences) WantedCategoryIDs() []WantedCategoryID {
	seen := make(map[WantedCategoryID]bool, len(p.WantedCategories))
	ids := make([]WantedCategoryID, 0, len(p.WantedCategories))
	for _, c := range p.WantedCategories {
		id := WantedCategoryID{PreferencesID: p.UserID, CategoryID: c}
		if seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}
	return ids
}
