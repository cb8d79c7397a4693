package utils

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
)

func TestOnlyDigits(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"empty", "", ""},
		{"masked cep", "01001-000", "01001000"},
		{"masked cnpj", "11.222.333/0001-81", "11222333000181"},
		{"stray characters", " a1b2 c3-", "123"},
		{"non ascii", "São 12º", "12"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, OnlyDigits(tt.raw))
		})
	}
}

func TestMaskCEP(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"", ""},
		{"0", "0"},
		{"01001", "01001"},
		{"010010", "01001-0"},
		{"01001000", "01001-000"},
		{"01001-000", "01001-000"},
		{"0100100099", "01001-000"},
		{"abc", ""},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, MaskCEP(tt.raw))
		})
	}
}

func TestMaskCNPJ(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"", ""},
		{"11", "11"},
		{"112", "11.2"},
		{"11222", "11.222"},
		{"112223", "11.222.3"},
		{"11222333", "11.222.333"},
		{"112223330", "11.222.333/0"},
		{"112223330001", "11.222.333/0001"},
		{"1122233300018", "11.222.333/0001-8"},
		{"11222333000181", "11.222.333/0001-81"},
		{"11.222.333/0001-81", "11.222.333/0001-81"},
		{"1122233300018199", "11.222.333/0001-81"},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, MaskCNPJ(tt.raw))
		})
	}
}

func truncate(max int) func(string) string {
	return func(s string) string {
		if len(s) > max {
			return s[:max]
		}
		return s
	}
}

func TestMask_PropertyRoundTrip(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("cep mask strips back to its digits", prop.ForAll(
		func(s string) bool {
			return OnlyDigits(MaskCEP(s)) == s
		},
		gen.NumString().Map(truncate(CEPLength)),
	))

	properties.Property("cnpj mask strips back to its digits", prop.ForAll(
		func(s string) bool {
			return OnlyDigits(MaskCNPJ(s)) == s
		},
		gen.NumString().Map(truncate(CNPJLength)),
	))

	properties.TestingRun(t)
}

func TestMask_PropertyIdempotent(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("cep mask is idempotent", prop.ForAll(
		func(s string) bool {
			return MaskCEP(MaskCEP(s)) == MaskCEP(s)
		},
		gen.AnyString(),
	))

	properties.Property("cnpj mask is idempotent", prop.ForAll(
		func(s string) bool {
			return MaskCNPJ(MaskCNPJ(s)) == MaskCNPJ(s)
		},
		gen.AnyString(),
	))

	properties.TestingRun(t)
}

func TestReformat(t *testing.T) {
	tests := []struct {
		name       string
		kind       Kind
		raw        string
		cursor     int
		wantMasked string
		wantCursor int
	}{
		{"cep typing at end", KindCEP, "010010", 6, "01001-0", 7},
		{"cep cursor in the middle", KindCEP, "010010", 3, "01001-0", 3},
		{"cep cursor at start", KindCEP, "010010", 0, "01001-0", 0},
		{"cep cursor clamped", KindCEP, "0100", 99, "0100", 4},
		{"cnpj typing past separator", KindCNPJ, "112", 3, "11.2", 4},
		{"cnpj pasted masked value", KindCNPJ, "11.222.333/0001-81", 18, "11.222.333/0001-81", 18},
		{"cnpj overflow digits", KindCNPJ, "112223330001819", 15, "11.222.333/0001-81", 18},
		{"negative cursor", KindCNPJ, "112", -1, "11.2", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			masked, cursor := Reformat(tt.kind, tt.raw, tt.cursor)
			assert.Equal(t, tt.wantMasked, masked)
			assert.Equal(t, tt.wantCursor, cursor)
		})
	}
}

func TestKind(t *testing.T) {
	assert.Equal(t, 8, KindCEP.Length())
	assert.Equal(t, 14, KindCNPJ.Length())
	assert.Equal(t, "cep", KindCEP.String())
	assert.Equal(t, "cnpj", KindCNPJ.String())
	assert.Equal(t, "01001-000", Mask(KindCEP, "01001000"))
}
