package validation

import (
	"testing"

	"github.com/ginjaninja78/giftcard-intake/internal/types"
	"github.com/stretchr/testify/assert"
)

func validCandidate() types.CandidateRecord {
	return types.CandidateRecord{
		Store:   "Target",
		Last4:   "5678",
		Amount:  "50.00",
		AddedBy: "Mike Davis",
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *types.CandidateRecord)
		want   types.FieldErrors
	}{
		{
			name:   "valid record",
			mutate: func(c *types.CandidateRecord) {},
			want:   types.FieldErrors{},
		},
		{
			name:   "notes are optional",
			mutate: func(c *types.CandidateRecord) { c.Notes = "" },
			want:   types.FieldErrors{},
		},
		{
			name:   "empty store",
			mutate: func(c *types.CandidateRecord) { c.Store = "" },
			want:   types.FieldErrors{types.FieldStore: MsgStoreRequired},
		},
		{
			name:   "whitespace store",
			mutate: func(c *types.CandidateRecord) { c.Store = "   \t" },
			want:   types.FieldErrors{types.FieldStore: MsgStoreRequired},
		},
		{
			name:   "leading zeros are valid",
			mutate: func(c *types.CandidateRecord) { c.Last4 = "0001" },
			want:   types.FieldErrors{},
		},
		{
			name:   "empty amount",
			mutate: func(c *types.CandidateRecord) { c.Amount = "" },
			want:   types.FieldErrors{types.FieldAmount: MsgAmountInvalid},
		},
		{
			name:   "zero amount",
			mutate: func(c *types.CandidateRecord) { c.Amount = "0" },
			want:   types.FieldErrors{types.FieldAmount: MsgAmountInvalid},
		},
		{
			name:   "negative amount",
			mutate: func(c *types.CandidateRecord) { c.Amount = "-5" },
			want:   types.FieldErrors{types.FieldAmount: MsgAmountInvalid},
		},
		{
			name:   "unparseable amount",
			mutate: func(c *types.CandidateRecord) { c.Amount = "fifty" },
			want:   types.FieldErrors{types.FieldAmount: MsgAmountInvalid},
		},
		{
			name:   "trailing garbage is rejected",
			mutate: func(c *types.CandidateRecord) { c.Amount = "12.5.6" },
			want:   types.FieldErrors{types.FieldAmount: MsgAmountInvalid},
		},
		{
			name:   "exponent notation is rejected",
			mutate: func(c *types.CandidateRecord) { c.Amount = "1e2000000000" },
			want:   types.FieldErrors{types.FieldAmount: MsgAmountInvalid},
		},
		{
			name:   "tiny exponent is rejected",
			mutate: func(c *types.CandidateRecord) { c.Amount = "1e-5" },
			want:   types.FieldErrors{types.FieldAmount: MsgAmountInvalid},
		},
		{
			name:   "large amount has no upper bound",
			mutate: func(c *types.CandidateRecord) { c.Amount = "99999999.99" },
			want:   types.FieldErrors{},
		},
		{
			name:   "empty added by",
			mutate: func(c *types.CandidateRecord) { c.AddedBy = " " },
			want:   types.FieldErrors{types.FieldAddedBy: MsgAddedByRequired},
		},
		{
			name: "all rules evaluated",
			mutate: func(c *types.CandidateRecord) {
				*c = types.CandidateRecord{Last4: "12"}
			},
			want: types.FieldErrors{
				types.FieldStore:   MsgStoreRequired,
				types.FieldLast4:   MsgLast4Digits,
				types.FieldAmount:  MsgAmountInvalid,
				types.FieldAddedBy: MsgAddedByRequired,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validCandidate()
			tt.mutate(&c)
			got := Validate(c)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, len(tt.want) == 0, got.OK())
		})
	}
}

func TestValidate_BadLast4OnlyReportsLast4(t *testing.T) {
	for _, last4 := range []string{"", "1", "12", "123", "12345", "abcd", "12a4", " 1234", "1234 ", "١٢٣٤"} {
		t.Run(last4, func(t *testing.T) {
			c := validCandidate()
			c.Last4 = last4
			assert.Equal(t, types.FieldErrors{types.FieldLast4: MsgLast4Digits}, Validate(c))
		})
	}
}

func TestRowErrors(t *testing.T) {
	t.Run("valid row has no errors", func(t *testing.T) {
		assert.Empty(t, RowErrors(validCandidate()))
	})

	t.Run("errors are ordered by field", func(t *testing.T) {
		got := RowErrors(types.CandidateRecord{Last4: "12", Amount: "0"})
		assert.Equal(t, []string{
			RowMsgStoreRequired,
			RowMsgLast4Digits,
			RowMsgAmountInvalid,
			RowMsgAddedByRequired,
		}, got)
	})
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		in     string
		want   string
		wantOK bool
	}{
		{"100.00", "100", true},
		{" 50.5 ", "50.5", true},
		{"0.01", "0.01", true},
		{"007.50", "7.5", true},
		{"1e2", "0", false},
		{"1e2000000000", "0", false},
		{"1e-5", "0", false},
		{"1E2", "0", false},
		{".5", "0", false},
		{"+5", "0", false},
		{"", "0", false},
		{"0.00", "0", false},
		{"-0.01", "0", false},
		{"$5", "0", false},
		{"12abc", "0", false},
		{"12.5.6", "0", false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseAmount(tt.in)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got.String())
		})
	}
}
