package rating

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/WoodenTech/fleetcover/internal/model"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestComputePremiumScenario(t *testing.T) {
	product := &model.Product{
		BaseRate: dec("100"),
		RatingFactors: []model.RatingFactor{
			{Name: "fleet age", Multiplier: dec("1.2")},
		},
	}
	coverages := []model.Coverage{{Type: model.CoverageTypeLiability, Premium: dec("50")}}

	got := ComputePremium(product, []string{"v1", "v2"}, coverages)

	// (100*2 + 50) * 1.2 = 300
	if !got.Equal(dec("300")) {
		t.Fatalf("expected 300, got %s", got)
	}
}

func TestComputePremiumNoFactorsMultiplierIsOne(t *testing.T) {
	product := &model.Product{BaseRate: dec("80")}

	got := ComputePremium(product, []string{"v1"}, nil)

	if !got.Equal(dec("80")) {
		t.Fatalf("expected 80, got %s", got)
	}
}

func TestComputePremiumAveragesFactors(t *testing.T) {
	product := &model.Product{
		BaseRate: dec("100"),
		RatingFactors: []model.RatingFactor{
			{Multiplier: dec("1.0")},
			{Multiplier: dec("2.0")},
			{Multiplier: dec("3.0")},
		},
	}

	got := ComputePremium(product, []string{"v1"}, nil)

	// mean(1,2,3) = 2, averaged rather than compounded
	if !got.Equal(dec("200")) {
		t.Fatalf("expected 200, got %s", got)
	}
}

func TestComputePremiumEmptyVehicleList(t *testing.T) {
	product := &model.Product{BaseRate: dec("100")}
	coverages := []model.Coverage{
		{Premium: dec("25.50")},
		{Premium: dec("10.25")},
	}

	got := ComputePremium(product, nil, coverages)

	// no vehicle contribution, coverage premiums still apply
	if !got.Equal(dec("35.75")) {
		t.Fatalf("expected 35.75, got %s", got)
	}
}

func TestComputePremiumDeterministic(t *testing.T) {
	product := &model.Product{
		BaseRate: dec("123.45"),
		RatingFactors: []model.RatingFactor{
			{Multiplier: dec("1.1")},
			{Multiplier: dec("0.9")},
		},
	}
	vehicles := []string{"a", "b", "c"}
	coverages := []model.Coverage{{Premium: dec("77.10")}}

	first := ComputePremium(product, vehicles, coverages)
	for i := 0; i < 10; i++ {
		if got := ComputePremium(product, vehicles, coverages); !got.Equal(first) {
			t.Fatalf("run %d: expected %s, got %s", i, first, got)
		}
	}
}
