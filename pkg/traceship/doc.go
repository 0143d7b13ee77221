// Package traceship ties the codec, planner, and sender together into a
// trace shipping client.
//
// A Shipper takes traces, serializes them in the configured wire format,
// packs them into payloads no larger than the configured ceiling, and
// POSTs each payload to the collector.
//
// # Usage
//
//	shipper, err := traceship.New(traceship.Config{
//	    CollectorURL: "https://collector.example.com",
//	    Format:       "msgpack",
//	}, traceship.WithLogger(logger))
//	if err != nil {
//	    return err
//	}
//
//	report, err := shipper.ShipTraces(ctx, traces)
package traceship
