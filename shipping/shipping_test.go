package shipping

import "testing"

func TestCost(t *testing.T) {
	cases := []struct {
		city string
		want float64
	}{
		{"Dhaka", DhakaRate},
		{"dhaka", DhakaRate},
		{"  DHAKA  ", DhakaRate},
		{"Chattogram", DefaultRate},
		{"Sylhet", DefaultRate},
		{"", DefaultRate},
	}
	for _, c := range cases {
		if got := Cost(c.city); got != c.want {
			t.Errorf("Cost(%q) = %v, want %v", c.city, got, c.want)
		}
	}
}
