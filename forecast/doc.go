// Package forecast provides a typed client for the Harvest Forecast API.
//
// Forecast is a resource scheduling tool: people and placeholders are booked
// onto projects through assignments. This package resolves authenticated GET
// requests into strongly typed entities.
//
// # Architecture
//
//   - Identifiers: ID[K] scopes a raw integer to one entity kind, so a
//     ProjectID can never be passed where a PersonID is expected.
//   - Filters: AssignmentFilter and MilestoneFilter encode their set fields
//     into a query string in declaration order.
//   - Codec: every response is a {"key": payload} envelope. Decode and
//     DecodeList map the payload onto entity structs and reject objects that
//     lack a required field.
//   - Pipeline: build the path, apply the filter, authenticate, send, check
//     the status, unwrap, decode. No retries and no caching.
//
// # Usage
//
//	logger := zerolog.New(os.Stderr)
//	api, err := forecast.New(token, forecast.AccountIDOf(123456), logger)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	from := forecast.NewDate(2024, time.March, 4)
//	assignments, err := api.Assignments(ctx, forecast.AssignmentFilter{
//		StartDate: &from,
//		State:     forecast.AssignmentStateActive,
//	})
//
// # Errors
//
// Failures are returned, never logged:
//
//   - *HTTPError for any non-2xx status
//   - *EnvelopeError (ErrMalformedEnvelope) when the container key is missing
//   - *DecodeError (ErrDecodeFailure, and ErrMalformedEntity for bad fields)
//   - *TransportError when the request could not be sent
package forecast
