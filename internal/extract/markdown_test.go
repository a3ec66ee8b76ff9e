package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBlocks(t *testing.T) {
	t.Parallel()

	msg := "I found two flights for you:\n\n" +
		"| Airline | Flight Code | Price | Duration | Stops |\n" +
		"|:--------|-------------|------:|----------|-------|\n" +
		"| **Delta** | DL100 | [$450.00](https://book.example/dl100) | 8h 20m | 0 |\n" +
		"| United | UA 9 | $520 | 9h | 1 stop |\n\n" +
		"And the plan:\n\n" +
		"```itinerary\n{\"days\": 3}\n```\n\n" +
		"```location\nParis, France\n```\n\n" +
		"```go\nfmt.Println(\"ignored\")\n```\n"

	blocks := ParseBlocks(msg)
	require.Len(t, blocks.Tables, 1)

	table := blocks.Tables[0]
	require.Len(t, table, 3, "header plus two rows; the delimiter row is not a row")
	assert.Equal(t, []string{"Airline", "Flight Code", "Price", "Duration", "Stops"}, table.Header())
	assert.Equal(t, "Delta", table[1][0])
	assert.Equal(t, "$450.00", table[1][2])

	flights := Records(FlightsFromTable(table))
	require.Len(t, flights, 2)
	assert.InDelta(t, 450.0, flights[0].PriceAmount, 0.001)
	assert.Equal(t, 1, flights[1].StopCount)

	require.Len(t, blocks.Structured, 2)
	assert.Equal(t, StructuredBlock{Tag: TagItinerary, Raw: `{"days": 3}`}, blocks.Structured[0])
	assert.Equal(t, StructuredBlock{Tag: TagLocation, Raw: "Paris, France"}, blocks.Structured[1])
}

func TestParseBlocks_JSONBlockFeedsPayloadExtraction(t *testing.T) {
	t.Parallel()

	msg := "Options:\n\n```json\n[{\"airline\": \"AF\", \"price\": 700, \"duration\": \"PT7H\", \"stops\": 0}]\n```\n"

	blocks := ParseBlocks(msg)
	require.Len(t, blocks.Structured, 1)
	assert.Equal(t, TagJSON, blocks.Structured[0].Tag)

	flights := FlightsFromPayload([]byte(blocks.Structured[0].Raw))
	require.Len(t, flights, 1)
	assert.Equal(t, "Air France", flights[0].Record.Airline)
}

func TestParseBlocks_PlainProse(t *testing.T) {
	t.Parallel()

	blocks := ParseBlocks("No tables here, just *text* and a [link](https://x.test).")
	assert.Empty(t, blocks.Tables)
	assert.Empty(t, blocks.Structured)
}

func TestRenderTable(t *testing.T) {
	t.Parallel()

	md := RenderTable(TableRows{{"A", "B"}, {"1", "x|y"}})
	assert.Equal(t, "| A | B |\n| --- | --- |\n| 1 | x\\|y |\n", md)
	assert.Empty(t, RenderTable(nil))
}
