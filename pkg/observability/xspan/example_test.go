package xspan_test

import (
	"fmt"

	"github.com/omeyang/xotelkit/pkg/observability/xspan"
)

func ExampleNewFields() {
	f := xspan.NewFields(
		xspan.String("http.method", "GET"),
		xspan.Empty("http.status_code"),
	)
	f.Record("http.status_code", "200")
	f.Record("unknown", "ignored")

	for _, field := range f.Snapshot() {
		fmt.Printf("%s=%s\n", field.Key, field.Value)
	}

	// Output:
	// http.method=GET
	// http.status_code=200
}
