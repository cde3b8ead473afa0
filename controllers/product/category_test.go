package productcontroller

import "testing"

func TestSlugify(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Hari Raya Specials", "hari-raya-specials"},
		{"  Home & Living  ", "home-living"},
		{"Baju Kurung 2026", "baju-kurung-2026"},
		{"---", ""},
	}
	for _, tc := range cases {
		if got := slugify(tc.in); got != tc.want {
			t.Errorf("slugify(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
