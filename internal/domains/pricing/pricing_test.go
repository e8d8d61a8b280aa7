package pricing_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hotel/internal/domains/pricing"
)

var (
	standardRates = pricing.Rates{Daily: 1_000_000, Hourly: 50_000}
	catalog       = map[string]pricing.Service{
		"spa":     {ID: "spa", Name: "Spa", Price: 200_000},
		"airport": {ID: "airport", Name: "Airport pickup", Price: 300_000},
	}
)

func at(day, hour, minute int) time.Time {
	return time.Date(2025, time.March, day, hour, minute, 0, 0, time.UTC)
}

func TestBilledUnits(t *testing.T) {
	tests := []struct {
		name      string
		checkIn   time.Time
		checkOut  time.Time
		wantDays  int
		wantHours int
	}{
		{name: "exact two days", checkIn: at(1, 0, 0), checkOut: at(3, 0, 0), wantDays: 2, wantHours: 48},
		{name: "one minute over a day", checkIn: at(1, 10, 0), checkOut: at(2, 10, 1), wantDays: 2, wantHours: 25},
		{name: "next calendar day inside 24h", checkIn: at(1, 22, 0), checkOut: at(2, 9, 0), wantDays: 1, wantHours: 11},
		{name: "half hour", checkIn: at(1, 10, 0), checkOut: at(1, 10, 30), wantDays: 1, wantHours: 1},
		{name: "three and a half hours", checkIn: at(1, 10, 0), checkOut: at(1, 13, 30), wantDays: 1, wantHours: 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantDays, pricing.BilledDays(tt.checkIn, tt.checkOut))
			assert.Equal(t, tt.wantHours, pricing.BilledHours(tt.checkIn, tt.checkOut))
		})
	}
}

func TestRoomCharge(t *testing.T) {
	tests := []struct {
		name       string
		rates      pricing.Rates
		mode       pricing.Mode
		checkIn    time.Time
		checkOut   time.Time
		wantUnits  int
		wantCharge int64
		wantErr    error
	}{
		{
			name:       "daily two nights",
			rates:      standardRates,
			mode:       pricing.ModeDaily,
			checkIn:    at(1, 0, 0),
			checkOut:   at(3, 0, 0),
			wantUnits:  2,
			wantCharge: 2_000_000,
		},
		{
			name:       "hourly rounds up",
			rates:      standardRates,
			mode:       pricing.ModeHourly,
			checkIn:    at(1, 10, 0),
			checkOut:   at(1, 13, 30),
			wantUnits:  4,
			wantCharge: 200_000,
		},
		{
			name:       "hourly honours minimum hours",
			rates:      pricing.Rates{Daily: 1_000_000, Hourly: 50_000, MinimumHours: 3},
			mode:       pricing.ModeHourly,
			checkIn:    at(1, 10, 0),
			checkOut:   at(1, 11, 0),
			wantUnits:  3,
			wantCharge: 150_000,
		},
		{
			name:     "check-out equal to check-in",
			rates:    standardRates,
			mode:     pricing.ModeDaily,
			checkIn:  at(1, 10, 0),
			checkOut: at(1, 10, 0),
			wantErr:  pricing.ErrInvalidPeriod,
		},
		{
			name:     "check-out before check-in",
			rates:    standardRates,
			mode:     pricing.ModeHourly,
			checkIn:  at(2, 10, 0),
			checkOut: at(1, 10, 0),
			wantErr:  pricing.ErrInvalidPeriod,
		},
		{
			name:     "unknown mode",
			rates:    standardRates,
			mode:     pricing.Mode("Weekly"),
			checkIn:  at(1, 10, 0),
			checkOut: at(2, 10, 0),
			wantErr:  pricing.ErrUnknownMode,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			units, charge, err := pricing.RoomCharge(tt.rates, tt.mode, tt.checkIn, tt.checkOut)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantUnits, units)
			assert.Equal(t, tt.wantCharge, charge)
		})
	}
}

func TestPriceServices(t *testing.T) {
	lines, total, err := pricing.PriceServices([]pricing.Line{
		{ServiceID: "spa", Quantity: 2},
		{ServiceID: "airport", Quantity: 1},
	}, catalog)
	require.NoError(t, err)

	assert.Equal(t, int64(700_000), total)
	require.Len(t, lines, 2)
	assert.Equal(t, pricing.PricedLine{ServiceID: "spa", ServiceName: "Spa", UnitPrice: 200_000, Quantity: 2, LineTotal: 400_000}, lines[0])
	assert.Equal(t, int64(300_000), lines[1].LineTotal)

	_, _, err = pricing.PriceServices([]pricing.Line{{ServiceID: "laundry", Quantity: 1}}, catalog)

	var unknown *pricing.UnknownServiceError
	require.True(t, errors.As(err, &unknown))
	assert.Equal(t, "laundry", unknown.ServiceID)

	_, _, err = pricing.PriceServices([]pricing.Line{{ServiceID: "spa", Quantity: 0}}, catalog)
	assert.ErrorIs(t, err, pricing.ErrInvalidQuantity)

	lines, total, err = pricing.PriceServices(nil, catalog)
	require.NoError(t, err)
	assert.Empty(t, lines)
	assert.Zero(t, total)
}

func TestCalculate(t *testing.T) {
	quote, err := pricing.Calculate(pricing.Request{
		Rates:    standardRates,
		Mode:     pricing.ModeDaily,
		CheckIn:  at(1, 0, 0),
		CheckOut: at(3, 0, 0),
		Lines: []pricing.Line{
			{ServiceID: "spa", Quantity: 2},
			{ServiceID: "airport", Quantity: 1},
		},
		Catalog: catalog,
	})
	require.NoError(t, err)

	assert.Equal(t, 2, quote.BilledUnits)
	assert.Equal(t, int64(2_000_000), quote.RoomCharge)
	assert.Equal(t, int64(700_000), quote.ServiceCharge)
	assert.Equal(t, int64(2_700_000), quote.Total)

	_, err = pricing.Calculate(pricing.Request{
		Rates:    standardRates,
		Mode:     pricing.ModeDaily,
		CheckIn:  at(1, 0, 0),
		CheckOut: at(3, 0, 0),
		Lines:    []pricing.Line{{ServiceID: "minibar", Quantity: 1}},
		Catalog:  catalog,
	})

	var unknown *pricing.UnknownServiceError
	assert.True(t, errors.As(err, &unknown), "unknown services are rejected, never priced at zero")
}

func TestCalculate_Monotonic(t *testing.T) {
	checkIn := at(1, 9, 0)

	for _, mode := range []pricing.Mode{pricing.ModeDaily, pricing.ModeHourly} {
		var previous int64

		for minutes := 1; minutes <= 4*24*60; minutes += 17 {
			for qty := 1; qty <= 3; qty++ {
				quote, err := pricing.Calculate(pricing.Request{
					Rates:    standardRates,
					Mode:     mode,
					CheckIn:  checkIn,
					CheckOut: checkIn.Add(time.Duration(minutes) * time.Minute),
					Lines:    []pricing.Line{{ServiceID: "spa", Quantity: qty}},
					Catalog:  catalog,
				})
				require.NoError(t, err)

				if qty > 1 {
					assert.Greater(t, quote.Total, previous, "more services never cost less")
				}

				previous = quote.Total
			}
		}
	}

	var last int64

	for minutes := 1; minutes <= 3*24*60; minutes += 7 {
		quote, err := pricing.Calculate(pricing.Request{
			Rates:    standardRates,
			Mode:     pricing.ModeHourly,
			CheckIn:  checkIn,
			CheckOut: checkIn.Add(time.Duration(minutes) * time.Minute),
			Catalog:  catalog,
		})
		require.NoError(t, err)
		assert.GreaterOrEqual(t, quote.Total, last, "longer stays never cost less")

		last = quote.Total
	}
}

func TestBilledUnits_NeverFloor(t *testing.T) {
	checkIn := at(1, 0, 0)

	for minutes := 1; minutes <= 5*24*60; minutes += 13 {
		elapsed := time.Duration(minutes) * time.Minute
		checkOut := checkIn.Add(elapsed)

		days := pricing.BilledDays(checkIn, checkOut)
		hours := pricing.BilledHours(checkIn, checkOut)

		assert.GreaterOrEqual(t, time.Duration(days)*24*time.Hour, elapsed)
		assert.Less(t, time.Duration(days-1)*24*time.Hour, elapsed)
		assert.GreaterOrEqual(t, time.Duration(hours)*time.Hour, elapsed)
		assert.Less(t, time.Duration(hours-1)*time.Hour, elapsed)
	}
}
