package itinerary

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/tripscore/internal/model"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func testFlight() *model.FlightOption {
	return &model.FlightOption{
		ID: "f1", Airline: "Turkish Airlines", FlightNumber: "TK 1",
		PriceAmount: 612.4, CurrencyCode: "EUR", DurationHours: 10.5, StopCount: 0,
		DepartureLabel: "03:04 PM", Origin: "JFK", Destination: "IST",
	}
}

func testHotel() *model.HotelOption {
	return &model.HotelOption{ID: "h1", Name: "Hotel Lumiere", Location: "Paris", PricePerNight: 189, CurrencyCode: "EUR", Rating: 4}
}

func activities(n int) []model.ActivityOption {
	out := make([]model.ActivityOption, n)
	for i := range out {
		out[i] = model.ActivityOption{ID: string(rune('a' + i)), Name: "Activity " + string(rune('A'+i)), CurrencyCode: "EUR"}
	}
	return out
}

func TestAssemble_ThreeDaysNoActivitiesNoReturn(t *testing.T) {
	t.Parallel()

	days, err := Assemble(Input{
		Flight: testFlight(),
		Hotel:  testHotel(),
		Start:  date(2025, 11, 20),
		End:    date(2025, 11, 23),
	})
	require.NoError(t, err)
	require.Len(t, days, 3)

	// Day 1: outbound flight then check-in.
	require.Len(t, days[0].Items, 2)
	assert.Equal(t, model.KindFlight, days[0].Items[0].Kind)
	assert.False(t, days[0].Items[0].IsPlaceholder)
	assert.Equal(t, LegOutbound, days[0].Items[0].Flight.Leg)
	assert.Equal(t, "Turkish Airlines TK 1 (JFK → IST)", days[0].Items[0].Title)
	assert.Equal(t, "03:04 PM", days[0].Items[0].TimeLabel)
	assert.Equal(t, "10h 30m", days[0].Items[0].Flight.Duration)
	assert.Equal(t, model.KindHotel, days[0].Items[1].Kind)
	assert.Equal(t, StayCheckIn, days[0].Items[1].Hotel.Stay)

	// Day 2: pool exhausted, placeholder then overnight.
	require.Len(t, days[1].Items, 2)
	assert.Equal(t, model.KindActivity, days[1].Items[0].Kind)
	assert.True(t, days[1].Items[0].IsPlaceholder)
	assert.Equal(t, "Open exploration", days[1].Items[0].Title)
	assert.Equal(t, StayOvernight, days[1].Items[1].Hotel.Stay)

	// Day 3 carries no return leg.
	for _, item := range days[2].Items {
		if item.Kind == model.KindFlight {
			t.Fatalf("day 3 should not contain a flight, got %+v", item)
		}
	}

	for i, d := range days {
		assert.Equal(t, i+1, d.DayIndex)
		assert.Equal(t, date(2025, 11, 20+i), d.Date)
	}
	assert.Equal(t, "Thursday, November 20, 2025", days[0].DateLabel)
}

func TestAssemble_ActivitiesTwoPerDay(t *testing.T) {
	t.Parallel()

	days, err := Assemble(Input{
		Hotel:      testHotel(),
		Activities: activities(3),
		Start:      date(2025, 11, 20),
		End:        date(2025, 11, 24),
	})
	require.NoError(t, err)
	require.Len(t, days, 4)

	// Day 2 gets pool[0] and pool[1], day 3 gets pool[2], day 4 is exhausted.
	require.Len(t, days[1].Items, 3)
	assert.Equal(t, "Activity A", days[1].Items[0].Title)
	assert.Equal(t, "Morning", days[1].Items[0].TimeLabel)
	assert.Equal(t, "Activity B", days[1].Items[1].Title)
	assert.Equal(t, "Afternoon", days[1].Items[1].TimeLabel)

	require.Len(t, days[2].Items, 2)
	assert.Equal(t, "Activity C", days[2].Items[0].Title)
	assert.False(t, days[2].Items[0].IsPlaceholder)

	require.Len(t, days[3].Items, 2)
	assert.True(t, days[3].Items[0].IsPlaceholder)
}

func TestAssemble_CustomActivitiesPerDay(t *testing.T) {
	t.Parallel()

	days, err := Assemble(Input{
		Activities:       activities(3),
		Start:            date(2025, 11, 20),
		End:              date(2025, 11, 22),
		ActivitiesPerDay: 3,
	})
	require.NoError(t, err)
	require.Len(t, days, 2)
	require.Len(t, days[1].Items, 4)
	assert.Equal(t, "Evening", days[1].Items[2].TimeLabel)
}

func TestAssemble_ReturnDay(t *testing.T) {
	t.Parallel()

	ret := date(2025, 11, 23)
	returnFlight := &model.FlightOption{ID: "r1", Airline: "Lufthansa", FlightNumber: "LH 400", DepartureLabel: "11:00 AM"}

	days, err := Assemble(Input{
		Flight:       testFlight(),
		ReturnFlight: returnFlight,
		Hotel:        testHotel(),
		Start:        date(2025, 11, 20),
		End:          date(2025, 11, 23),
		Return:       &ret,
	})
	require.NoError(t, err)
	require.Len(t, days, 4)

	last := days[3]
	assert.Equal(t, 4, last.DayIndex)
	assert.Equal(t, date(2025, 11, 23), last.Date)
	require.Len(t, last.Items, 1)
	assert.Equal(t, model.KindFlight, last.Items[0].Kind)
	assert.Equal(t, LegReturn, last.Items[0].Flight.Leg)
	assert.False(t, last.Items[0].IsPlaceholder)
	assert.Equal(t, "r1", last.Items[0].Flight.FlightID)
}

func TestAssemble_ReturnDateWithoutFlightIsPlaceholder(t *testing.T) {
	t.Parallel()

	ret := date(2025, 11, 23)
	days, err := Assemble(Input{
		Start:  date(2025, 11, 20),
		End:    date(2025, 11, 22),
		Return: &ret,
	})
	require.NoError(t, err)
	require.Len(t, days, 3)
	assert.True(t, days[2].Items[0].IsPlaceholder)
	assert.Equal(t, "Return flight", days[2].Items[0].Title)
}

func TestAssemble_ReturnNotAfterStartIgnored(t *testing.T) {
	t.Parallel()

	ret := date(2025, 11, 20)
	days, err := Assemble(Input{
		Start:  date(2025, 11, 20),
		End:    date(2025, 11, 22),
		Return: &ret,
	})
	require.NoError(t, err)
	assert.Len(t, days, 2)
}

func TestAssemble_SameDayTrip(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		end  time.Time
	}{
		{"equal", date(2025, 11, 20)},
		{"before", date(2025, 11, 18)},
		{"zero", time.Time{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			ret := date(2025, 11, 21)
			days, err := Assemble(Input{Flight: testFlight(), Start: date(2025, 11, 20), End: tt.end, Return: &ret})
			require.NoError(t, err)
			require.Len(t, days, 1)
			assert.Len(t, days[0].Items, 2)
		})
	}
}

func TestAssemble_PlaceholdersCarryMetadata(t *testing.T) {
	t.Parallel()

	days, err := Assemble(Input{Start: date(2025, 11, 20), End: date(2025, 11, 22)})
	require.NoError(t, err)

	for _, d := range days {
		require.NotEmpty(t, d.Items, "day %d has no items", d.DayIndex)
		for _, item := range d.Items {
			assert.True(t, item.IsPlaceholder)
			switch item.Kind {
			case model.KindFlight:
				assert.NotNil(t, item.Flight)
				assert.Nil(t, item.Hotel)
				assert.Nil(t, item.Activity)
			case model.KindHotel:
				assert.NotNil(t, item.Hotel)
				assert.Nil(t, item.Flight)
			case model.KindActivity:
				assert.NotNil(t, item.Activity)
				assert.Nil(t, item.Hotel)
			}
		}
	}
}

func TestAssemble_NoDayIsEmpty(t *testing.T) {
	t.Parallel()

	ret := date(2025, 12, 20)
	for n := 0; n < 6; n++ {
		for span := 0; span < 8; span++ {
			days, err := Assemble(Input{
				Activities: activities(n),
				Start:      date(2025, 12, 1),
				End:        date(2025, 12, 1+span),
				Return:     &ret,
			})
			require.NoError(t, err)
			for _, d := range days {
				assert.NotEmpty(t, d.Items, "activities=%d span=%d day=%d", n, span, d.DayIndex)
			}
		}
	}
}

func TestAssemble_PartialDayRoundsUp(t *testing.T) {
	t.Parallel()

	start := time.Date(2025, 11, 20, 9, 0, 0, 0, time.UTC)
	end := time.Date(2025, 11, 22, 18, 0, 0, 0, time.UTC)
	days, err := Assemble(Input{Start: start, End: end})
	require.NoError(t, err)
	// Times are dropped to calendar days: 20 to 22 is two days.
	assert.Len(t, days, 2)
}

func TestAssemble_MissingStart(t *testing.T) {
	t.Parallel()

	_, err := Assemble(Input{End: date(2025, 11, 23)})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMissingDateRange))
}
