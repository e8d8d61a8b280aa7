// Package pricing turns room rates, a stay and ordered services into charges.
//
// All amounts are integers in the smallest currency unit. Billed units are always rounded up so a
// stay is never undercharged: 24h01m is two days, 3h30m is four hours.
package pricing

import (
	"errors"
	"fmt"
	"time"
)

type Mode string

const (
	ModeDaily  Mode = "Daily"
	ModeHourly Mode = "Hourly"
)

const (
	day  = 24 * time.Hour
	hour = time.Hour
)

var (
	ErrInvalidPeriod   = errors.New("check-out must be after check-in")
	ErrUnknownMode     = errors.New("unknown booking mode")
	ErrInvalidQuantity = errors.New("service quantity must be at least 1")
)

// UnknownServiceError is returned for a line whose service is not in the catalog.
type UnknownServiceError struct {
	ServiceID string
}

func (e *UnknownServiceError) Error() string {
	return fmt.Sprintf("unknown service %q", e.ServiceID)
}

type Rates struct {
	Daily        int64
	Hourly       int64
	MinimumHours int
}

// Service is the catalog entry a line is priced from.
type Service struct {
	ID    string
	Name  string
	Price int64
}

type Line struct {
	ServiceID string
	Quantity  int
}

type PricedLine struct {
	ServiceID   string
	ServiceName string
	UnitPrice   int64
	Quantity    int
	LineTotal   int64
}

type Request struct {
	Rates    Rates
	Mode     Mode
	CheckIn  time.Time
	CheckOut time.Time
	Lines    []Line
	Catalog  map[string]Service
}

type Quote struct {
	BilledUnits   int
	RoomCharge    int64
	ServiceCharge int64
	Total         int64
	Lines         []PricedLine
}

func ceilUnits(elapsed, unit time.Duration) int {
	units := int(elapsed / unit)
	if elapsed%unit != 0 {
		units++
	}

	return max(1, units)
}

// BilledDays is the number of started 24h periods, at least one.
func BilledDays(checkIn, checkOut time.Time) int {
	return ceilUnits(checkOut.Sub(checkIn), day)
}

// BilledHours is the number of started hours, at least one.
func BilledHours(checkIn, checkOut time.Time) int {
	return ceilUnits(checkOut.Sub(checkIn), hour)
}

// RoomCharge returns the billed units and the room charge for the stay.
func RoomCharge(rates Rates, mode Mode, checkIn, checkOut time.Time) (int, int64, error) {
	if !checkOut.After(checkIn) {
		return 0, 0, ErrInvalidPeriod
	}

	switch mode {
	case ModeDaily:
		days := BilledDays(checkIn, checkOut)

		return days, rates.Daily * int64(days), nil
	case ModeHourly:
		hours := max(rates.MinimumHours, BilledHours(checkIn, checkOut))

		return hours, rates.Hourly * int64(hours), nil
	default:
		return 0, 0, fmt.Errorf("%w: %q", ErrUnknownMode, mode)
	}
}

// PriceServices prices every line from catalog, keeping the order of lines. The name and unit
// price are copied so the booking keeps its price if the catalog changes later.
func PriceServices(lines []Line, catalog map[string]Service) ([]PricedLine, int64, error) {
	priced := make([]PricedLine, 0, len(lines))

	var total int64

	for _, line := range lines {
		if line.Quantity < 1 {
			return nil, 0, fmt.Errorf("%w: service %q", ErrInvalidQuantity, line.ServiceID)
		}

		service, ok := catalog[line.ServiceID]
		if !ok {
			return nil, 0, &UnknownServiceError{ServiceID: line.ServiceID}
		}

		lineTotal := service.Price * int64(line.Quantity)
		total += lineTotal

		priced = append(priced, PricedLine{
			ServiceID:   service.ID,
			ServiceName: service.Name,
			UnitPrice:   service.Price,
			Quantity:    line.Quantity,
			LineTotal:   lineTotal,
		})
	}

	return priced, total, nil
}

func Calculate(req Request) (Quote, error) {
	units, roomCharge, err := RoomCharge(req.Rates, req.Mode, req.CheckIn, req.CheckOut)
	if err != nil {
		return Quote{}, err
	}

	lines, serviceCharge, err := PriceServices(req.Lines, req.Catalog)
	if err != nil {
		return Quote{}, err
	}

	return Quote{
		BilledUnits:   units,
		RoomCharge:    roomCharge,
		ServiceCharge: serviceCharge,
		Total:         roomCharge + serviceCharge,
		Lines:         lines,
	}, nil
}
