package checkout

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"kitchen/internal/models"
	"kitchen/internal/validation"
)

// Delivery time choices.
const (
	DeliveryASAP     = "ASAP(30-25)"
	DeliveryStandard = "ASAP(45-30)"
	DeliverySchedule = "schedule"

	DefaultContactPhone = "+234 801 234 5678"

	scheduleDays     = 7
	firstSlotHour    = 8
	closingHour      = 22
	scheduleDateForm = "2006-01-02"
)

var (
	ErrAddressNotFound = errors.New("address not found")
	ErrLastAddress     = errors.New("you must have at least one address")
)

// DefaultAddresses is the address book a new client starts with.
func DefaultAddresses() AddressBook {
	return AddressBook{
		{ID: "home", Type: "home", Label: "Home", Address: "123 Main Street, Victoria Island, Lagos", Details: "Apt 4B, Opposite Mega Plaza", IsDefault: true},
		{ID: "work", Type: "work", Label: "Work", Address: "45 Adeola Odeku Street, Victoria Island, Lagos", Details: "3rd Floor, Sterling Towers"},
	}
}

// AddressBook is a client's saved delivery addresses.
type AddressBook []models.Address

// Find returns the address with the given id.
func (b AddressBook) Find(id string) (models.Address, bool) {
	for _, a := range b {
		if a.ID == id {
			return a, true
		}
	}
	return models.Address{}, false
}

// Default returns the default address, or the first one.
func (b AddressBook) Default() (models.Address, bool) {
	for _, a := range b {
		if a.IsDefault {
			return a, true
		}
	}
	if len(b) == 0 {
		return models.Address{}, false
	}
	return b[0], true
}

// Add appends an address under id. An empty label is derived from the type.
func (b AddressBook) Add(a models.Address, id string) AddressBook {
	a.ID = id
	a.IsDefault = false
	if a.Label == "" {
		switch a.Type {
		case "home":
			a.Label = "Home"
		case "work":
			a.Label = "Work"
		default:
			a.Label = "Other"
		}
	}
	return append(b, a)
}

// Remove deletes an address. The last address cannot be removed. If the
// default is removed, the first remaining address becomes default.
func (b AddressBook) Remove(id string) (AddressBook, error) {
	if _, ok := b.Find(id); !ok {
		return b, ErrAddressNotFound
	}
	if len(b) <= 1 {
		return b, ErrLastAddress
	}
	out := make(AddressBook, 0, len(b)-1)
	hadDefault := false
	for _, a := range b {
		if a.ID == id {
			continue
		}
		hadDefault = hadDefault || a.IsDefault
		out = append(out, a)
	}
	if !hadDefault {
		out[0].IsDefault = true
	}
	return out, nil
}

// SetDefault marks exactly one address as default.
func (b AddressBook) SetDefault(id string) (AddressBook, error) {
	if _, ok := b.Find(id); !ok {
		return b, ErrAddressNotFound
	}
	out := make(AddressBook, len(b))
	for i, a := range b {
		a.IsDefault = a.ID == id
		out[i] = a
	}
	return out, nil
}

// ResolveDelivery validates a delivery request against the address book and
// the schedule window.
func ResolveDelivery(req models.DeliveryRequest, book AddressBook, now time.Time) (models.DeliveryDetails, error) {
	errs := validation.FieldErrors{}
	addr, ok := book.Find(req.AddressID)
	if !ok {
		errs["addressId"] = "Please select a delivery address"
	}
	d := models.DeliveryDetails{
		Address:      addr,
		DeliveryTime: req.DeliveryTime,
		Instructions: strings.TrimSpace(req.Instructions),
		ContactPhone: req.ContactPhone,
	}
	if d.ContactPhone == "" {
		d.ContactPhone = DefaultContactPhone
	}
	switch req.DeliveryTime {
	case DeliveryASAP, DeliveryStandard:
	case DeliverySchedule:
		if msg := checkSchedule(req.ScheduledDate, req.ScheduledTime, now); msg != "" {
			errs["scheduledTime"] = msg
		}
		d.ScheduledDate = req.ScheduledDate
		d.ScheduledTime = req.ScheduledTime
	default:
		errs["deliveryTime"] = "Select time"
	}
	if len(errs) > 0 {
		return models.DeliveryDetails{}, errs
	}
	return d, nil
}

func checkSchedule(date, clock string, now time.Time) string {
	day, err := time.ParseInLocation(scheduleDateForm, date, now.Location())
	if err != nil {
		return "Please choose a delivery date"
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if day.Before(today) || !day.Before(today.AddDate(0, 0, scheduleDays)) {
		return "Delivery can only be scheduled within the next 7 days"
	}
	slot, err := time.Parse("15:04", clock)
	if err != nil {
		return "Please choose a delivery time"
	}
	hour, minute := slot.Hour(), slot.Minute()
	if minute != 0 && minute != 30 {
		return "Please choose a half-hour slot"
	}
	first := firstSlotHour
	if day.Equal(today) {
		first = max(now.Hour()+1, firstSlotHour)
	}
	if hour < first || hour >= closingHour {
		return "That time slot is not available"
	}
	return ""
}

// TimeSlots lists the schedulable half-hour slots for a date, as HH:MM.
func TimeSlots(day, now time.Time) []string {
	first := firstSlotHour
	if y, m, d := now.Date(); day.Year() == y && day.Month() == m && day.Day() == d {
		first = max(now.Hour()+1, firstSlotHour)
	}
	var slots []string
	for h := first; h < closingHour; h++ {
		slots = append(slots, fmt.Sprintf("%02d:00", h), fmt.Sprintf("%02d:30", h))
	}
	return slots
}

// DeliveryTimeLabel renders the chosen delivery time for display.
func DeliveryTimeLabel(d models.DeliveryDetails) string {
	switch d.DeliveryTime {
	case DeliveryASAP:
		return "ASAP (30-25 mins)"
	case DeliveryStandard:
		return "Standard (45-30 mins)"
	case DeliverySchedule:
		if day, err := time.Parse(scheduleDateForm, d.ScheduledDate); err == nil && d.ScheduledTime != "" {
			return fmt.Sprintf("%s at %s", day.Format("Mon, Jan 2"), d.ScheduledTime)
		}
	}
	return "Select time"
}

// EstimatedTime is the delivery estimate recorded on the order.
func EstimatedTime(d *models.DeliveryDetails) string {
	if d == nil {
		return "30-45 mins"
	}
	switch d.DeliveryTime {
	case DeliveryASAP:
		return "25-30 mins"
	case DeliveryStandard:
		return "30-45 mins"
	}
	return DeliveryTimeLabel(*d)
}
