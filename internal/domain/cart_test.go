package domain

import "testing"

func intPtr(v int) *int { return &v }

func TestClampQuantity(t *testing.T) {
	cases := []struct {
		name    string
		desired int
		limit   *int
		want    int
	}{
		{"no limit", 7, nil, 7},
		{"under limit", 2, intPtr(5), 2},
		{"at limit", 5, intPtr(5), 5},
		{"over limit", 9, intPtr(5), 5},
		{"non-positive limit ignored", 9, intPtr(0), 9},
		{"negative limit ignored", 9, intPtr(-3), 9},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ClampQuantity(tc.desired, tc.limit); got != tc.want {
				t.Fatalf("ClampQuantity(%d, %v) = %d, want %d", tc.desired, tc.limit, got, tc.want)
			}
		})
	}
}

func TestClampQuantityRepeatedAdditionsBounded(t *testing.T) {
	limit := intPtr(4)
	qty := 0
	for i := 0; i < 10; i++ {
		qty = ClampQuantity(qty+3, limit)
		if qty > *limit {
			t.Fatalf("quantity %d exceeded limit %d after %d additions", qty, *limit, i+1)
		}
	}
	if qty != *limit {
		t.Fatalf("expected saturated quantity %d, got %d", *limit, qty)
	}
}

func TestCartOwnerExclusivity(t *testing.T) {
	user := UserOwner("u1")
	if _, ok := user.UserID(); !ok {
		t.Fatalf("expected user owner")
	}
	if _, ok := user.AnonymousID(); ok {
		t.Fatalf("user owner must not expose an anonymous id")
	}

	guest := GuestOwner("anon-1")
	if _, ok := guest.AnonymousID(); !ok {
		t.Fatalf("expected guest owner")
	}
	if _, ok := guest.UserID(); ok {
		t.Fatalf("guest owner must not expose a user id")
	}

	var zero CartOwner
	if !zero.IsZero() {
		t.Fatalf("zero owner should report IsZero")
	}
	if UserOwner("").IsZero() != true {
		t.Fatalf("empty user id should report IsZero")
	}
}

func TestCartHasProduct(t *testing.T) {
	cart := Cart{Items: []CartItem{{ProductID: "p1", Quantity: 1}}}
	if !cart.HasProduct("p1") {
		t.Fatalf("expected cart to have p1")
	}
	if cart.HasProduct("p2") {
		t.Fatalf("did not expect cart to have p2")
	}
}
