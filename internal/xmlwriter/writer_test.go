package xmlwriter

import (
	"bytes"
	"encoding/xml"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/giftcard-intake/internal/types"
)

func sampleRecords() []types.CommittedRecord {
	day := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	return []types.CommittedRecord{
		{ID: 1000000, Store: "Walmart", Last4: "1234", Amount: decimal.RequireFromString("100"), AddedBy: "Sarah Johnson", Notes: "Example card", DateAdded: day},
		{ID: 1000001, Store: "AT&T <Store>", Last4: "0012", Amount: decimal.RequireFromString("5.5"), AddedBy: "Mike Davis", DateAdded: day},
	}
}

func TestGenerate(t *testing.T) {
	var buf bytes.Buffer
	opts := DefaultGenerateOptions()
	opts.SessionID = "abc"
	require.NoError(t, GenerateWithOptions(&buf, sampleRecords()[:1], opts))

	want := xml.Header +
		`<giftCards session="abc" count="1">` + "\n" +
		`  <card n="1" id="1000000">` + "\n" +
		`    <Store>Walmart</Store>` + "\n" +
		`    <Last4>1234</Last4>` + "\n" +
		`    <Amount>100.00</Amount>` + "\n" +
		`    <AddedBy>Sarah Johnson</AddedBy>` + "\n" +
		`    <Notes>Example card</Notes>` + "\n" +
		`    <DateAdded>2024-03-15</DateAdded>` + "\n" +
		`  </card>` + "\n" +
		`</giftCards>` + "\n"
	assert.Equal(t, want, buf.String())
}

func TestGenerate_RoundTrip(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Generate(&buf, sampleRecords()))

	var doc document
	require.NoError(t, xml.Unmarshal(buf.Bytes(), &doc))
	assert.Equal(t, 2, doc.Count)
	require.Len(t, doc.Cards, 2)
	assert.Equal(t, 2, doc.Cards[1].N)
	assert.Equal(t, "AT&T <Store>", doc.Cards[1].Store)
	assert.Equal(t, "0012", doc.Cards[1].Last4)
	assert.Equal(t, "5.50", doc.Cards[1].Amount)
	assert.Empty(t, doc.Cards[1].Notes)
	assert.NotContains(t, buf.String(), "<Notes></Notes>")
}

func TestGenerate_Empty(t *testing.T) {
	var buf bytes.Buffer
	opts := GenerateOptions{}
	require.NoError(t, GenerateWithOptions(&buf, nil, opts))
	assert.Equal(t, `<giftCards count="0"></giftCards>`+"\n", buf.String())
}
