package riot

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestSummonerKeyExactlyOne(t *testing.T) {
	c := New("http://unused", "")

	cases := []struct {
		name string
		key  SummonerKey
	}{
		{"empty", SummonerKey{}},
		{"id and name", SummonerKey{ID: 7, Name: "hype"}},
		{"all three", SummonerKey{ID: 7, AccountID: 8, Name: "hype"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := c.Summoner(context.Background(), tc.key); !errors.Is(err, ErrAmbiguousKey) {
				t.Errorf("got %v, want ErrAmbiguousKey", err)
			}
		})
	}
}

func TestSummonerLookup(t *testing.T) {
	want := Summoner{
		ID:            42,
		AccountID:     420,
		Name:          "hypebot",
		RevisionDate:  1700000000000,
		SummonerLevel: 30,
		ProfileIconID: 588,
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("name"); got != "hypebot" {
			t.Errorf("query name: %q", got)
		}
		if got := r.Header.Get("X-Riot-Token"); got != "secret" {
			t.Errorf("token header: %q", got)
		}
		_ = json.NewEncoder(w).Encode(want)
	}))
	defer srv.Close()

	c := New(srv.URL, "secret")
	got, err := c.Summoner(context.Background(), SummonerKey{Name: "hypebot"})
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if *got != want {
		t.Errorf("summoner: got %+v, want %+v", got, want)
	}
}

func TestSummonerLookupHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "nope", http.StatusNotFound)
	}))
	defer srv.Close()

	c := New(srv.URL, "")
	if _, err := c.Summoner(context.Background(), SummonerKey{ID: 1}); err == nil {
		t.Fatal("expected error on 404")
	}
}
