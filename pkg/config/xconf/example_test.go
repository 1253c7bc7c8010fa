package xconf_test

import (
	"fmt"

	"github.com/omeyang/xotelkit/pkg/config/xconf"
)

func ExampleNewFromBytes() {
	data := []byte(`
trace:
  endpoint: otel-collector:4317
  sample_ratio: 0.5
`)
	cfg, err := xconf.NewFromBytes(data, xconf.FormatYAML)
	if err != nil {
		fmt.Println(err)
		return
	}

	var trace struct {
		Endpoint    string  `koanf:"endpoint"`
		SampleRatio float64 `koanf:"sample_ratio"`
	}
	if err := cfg.Unmarshal("trace", &trace); err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(trace.Endpoint, trace.SampleRatio)
	// Output:
	// otel-collector:4317 0.5
}
