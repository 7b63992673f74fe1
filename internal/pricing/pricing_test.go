package pricing

import (
	"testing"

	"github.com/bagocfsa/shukrullahProduction-sub000/internal/constants"

	"github.com/shopspring/decimal"
)

func testRules() Rules {
	return Rules{
		ValueThreshold:    decimal.NewFromInt(90000),
		PackagingUnitCost: decimal.NewFromInt(1000),
		PackagingBandKg:   decimal.NewFromInt(20),
	}
}

func item(qty int, price int64, weightKg string) LineItem {
	w, _ := decimal.NewFromString(weightKg)
	return LineItem{ProductID: 1, ProductName: "test", Quantity: qty, UnitPrice: decimal.NewFromInt(price), UnitWeightKg: w}
}

func TestComputeOrderTotalsDeliveryMultiplier(t *testing.T) {
	// 小计 95000，阈值 90000 → 倍数 2 → 运费 2000
	zone := &Zone{Key: "lagos", BaseRate: decimal.NewFromInt(1000)}
	got, err := ComputeOrderTotals(
		[]LineItem{item(1, 95000, "0")},
		constants.DeliveryOptionDelivery, zone, constants.PackagingModeSack, testRules(),
	)
	if err != nil {
		t.Fatalf("ComputeOrderTotals failed: %v", err)
	}
	if !got.DeliveryCost.Equal(decimal.NewFromInt(2000)) {
		t.Fatalf("expected delivery cost 2000, got %s", got.DeliveryCost)
	}
	if !got.Total.Equal(decimal.NewFromInt(97000)) {
		t.Fatalf("expected total 97000, got %s", got.Total)
	}
}

func TestComputeOrderTotalsThresholdBoundary(t *testing.T) {
	zone := &Zone{Key: "lagos", BaseRate: decimal.NewFromInt(1000)}
	rules := testRules()

	below, err := ComputeOrderTotals([]LineItem{item(1, 90000, "0")}, constants.DeliveryOptionDelivery, zone, constants.PackagingModeSack, rules)
	if err != nil {
		t.Fatalf("ComputeOrderTotals failed: %v", err)
	}
	above, err := ComputeOrderTotals([]LineItem{item(1, 90001, "0")}, constants.DeliveryOptionDelivery, zone, constants.PackagingModeSack, rules)
	if err != nil {
		t.Fatalf("ComputeOrderTotals failed: %v", err)
	}

	// 跨过阈值边界，运费恰好增加一个基础运费
	if !below.DeliveryCost.Equal(decimal.NewFromInt(1000)) {
		t.Fatalf("expected delivery cost 1000 at boundary, got %s", below.DeliveryCost)
	}
	diff := above.DeliveryCost.Sub(below.DeliveryCost)
	if !diff.Equal(zone.BaseRate) {
		t.Fatalf("expected delivery cost to increase by exactly one base rate, got diff %s", diff)
	}
}

func TestComputeOrderTotalsPackagingBands(t *testing.T) {
	// 41kg，每 20kg 一档 → 3 档 → 包装费 3000
	got, err := ComputeOrderTotals(
		[]LineItem{item(41, 500, "1")},
		constants.DeliveryOptionPickup, nil, constants.PackagingModeCarton, testRules(),
	)
	if err != nil {
		t.Fatalf("ComputeOrderTotals failed: %v", err)
	}
	if !got.PackagingCost.Equal(decimal.NewFromInt(3000)) {
		t.Fatalf("expected packaging cost 3000, got %s", got.PackagingCost)
	}
	// 包装费始终是档位单价的整数倍
	if !got.PackagingCost.Mod(decimal.NewFromInt(1000)).IsZero() {
		t.Fatalf("packaging cost %s is not a multiple of the unit cost", got.PackagingCost)
	}
}

func TestComputeOrderTotalsFreePackagingShortCircuits(t *testing.T) {
	got, err := ComputeOrderTotals(
		[]LineItem{item(100, 500, "5")},
		constants.DeliveryOptionPickup, nil, constants.PackagingModeSack, testRules(),
	)
	if err != nil {
		t.Fatalf("ComputeOrderTotals failed: %v", err)
	}
	if !got.PackagingCost.IsZero() {
		t.Fatalf("expected packaging cost 0 in free mode, got %s", got.PackagingCost)
	}
}

func TestComputeOrderTotalsPickupNoDeliveryCost(t *testing.T) {
	got, err := ComputeOrderTotals(
		[]LineItem{item(10, 200000, "0")},
		constants.DeliveryOptionPickup, nil, constants.PackagingModeSack, testRules(),
	)
	if err != nil {
		t.Fatalf("ComputeOrderTotals failed: %v", err)
	}
	if !got.DeliveryCost.IsZero() {
		t.Fatalf("expected delivery cost 0 for pickup, got %s", got.DeliveryCost)
	}
}

func TestComputeOrderTotalsZeroRateZoneContactRequired(t *testing.T) {
	zone := &Zone{Key: "remote", BaseRate: decimal.Zero}
	got, err := ComputeOrderTotals(
		[]LineItem{item(1, 5000, "0")},
		constants.DeliveryOptionDelivery, zone, constants.PackagingModeSack, testRules(),
	)
	if err != nil {
		t.Fatalf("ComputeOrderTotals failed: %v", err)
	}
	if !got.DeliveryCost.IsZero() {
		t.Fatalf("expected delivery cost 0 for unpriced zone, got %s", got.DeliveryCost)
	}
	if !got.ContactRequired {
		t.Fatalf("expected contact_required flag for zero-rate zone")
	}
}

func TestComputeOrderTotalsValidation(t *testing.T) {
	rules := testRules()

	if _, err := ComputeOrderTotals(nil, constants.DeliveryOptionPickup, nil, constants.PackagingModeSack, rules); err != ErrNoLineItems {
		t.Fatalf("expected ErrNoLineItems, got %v", err)
	}
	if _, err := ComputeOrderTotals([]LineItem{item(0, 100, "0")}, constants.DeliveryOptionPickup, nil, constants.PackagingModeSack, rules); err != ErrInvalidQty {
		t.Fatalf("expected ErrInvalidQty, got %v", err)
	}
	if _, err := ComputeOrderTotals([]LineItem{item(1, -1, "0")}, constants.DeliveryOptionPickup, nil, constants.PackagingModeSack, rules); err != ErrNegativePrice {
		t.Fatalf("expected ErrNegativePrice, got %v", err)
	}
	if _, err := ComputeOrderTotals([]LineItem{item(1, 100, "0")}, constants.DeliveryOptionDelivery, nil, constants.PackagingModeSack, rules); err != ErrZoneRequired {
		t.Fatalf("expected ErrZoneRequired, got %v", err)
	}
}

func TestComputeOrderTotalsDeterministic(t *testing.T) {
	zone := &Zone{Key: "abuja", BaseRate: decimal.NewFromInt(1500)}
	items := []LineItem{item(3, 12500, "2.5"), item(1, 7999, "0.75")}

	first, err := ComputeOrderTotals(items, constants.DeliveryOptionDelivery, zone, constants.PackagingModeCarton, testRules())
	if err != nil {
		t.Fatalf("ComputeOrderTotals failed: %v", err)
	}
	second, err := ComputeOrderTotals(items, constants.DeliveryOptionDelivery, zone, constants.PackagingModeCarton, testRules())
	if err != nil {
		t.Fatalf("ComputeOrderTotals failed: %v", err)
	}

	if first.Subtotal.String() != second.Subtotal.String() ||
		first.DeliveryCost.String() != second.DeliveryCost.String() ||
		first.PackagingCost.String() != second.PackagingCost.String() ||
		first.Total.String() != second.Total.String() {
		t.Fatalf("expected identical results, got %+v and %+v", first, second)
	}

	// 总计恒等于三项之和
	sum := first.Subtotal.Add(first.DeliveryCost).Add(first.PackagingCost)
	if !first.Total.Equal(sum) {
		t.Fatalf("total %s does not equal component sum %s", first.Total, sum)
	}
}
