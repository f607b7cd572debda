package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestKindOf(t *testing.T) {
	wrapped := fmt.Errorf("approve: %w", New(LeadTime, "too late"))
	if got := KindOf(wrapped); got != LeadTime {
		t.Fatalf("KindOf = %v, want %v", got, LeadTime)
	}
	if got := KindOf(errors.New("boom")); got != Persistence {
		t.Fatalf("unclassified error kind = %v, want persistence", got)
	}
}

func TestStoreHidesCause(t *testing.T) {
	cause := errors.New("dial tcp 10.0.0.3:3306: connection refused")
	err := Store("insert request", cause)
	if err.Error() != GenericMessage {
		t.Fatalf("message leaked cause: %q", err.Error())
	}
	if !errors.Is(err, cause) {
		t.Fatal("cause not reachable through Unwrap")
	}
}

func TestHTTPStatus(t *testing.T) {
	cases := map[Kind]int{
		Validation:    http.StatusBadRequest,
		StateConflict: http.StatusConflict,
		Authorization: http.StatusForbidden,
		LeadTime:      http.StatusUnprocessableEntity,
		NotFound:      http.StatusNotFound,
		Persistence:   http.StatusInternalServerError,
	}
	for k, want := range cases {
		t.Run(k.String(), func(t *testing.T) {
			if got := k.HTTPStatus(); got != want {
				t.Fatalf("got %d, want %d", got, want)
			}
		})
	}
}
