// Package http exposes the appointment store over HTTP.
//
// The router serves the following endpoints:
//   - GET /appointments: {"listing","appointments":[appointmentDTO]}. Does not sweep.
//   - POST /appointments: stores an appointment. Accepts a JSON body
//     {"title","date","time","location","notes"} or the same fields form
//     encoded. Responds with {"status","listing"} and 201 on success, 422 for
//     missing fields, 409 for duplicates and 502 when enrichment fails.
//   - GET /reminders: {"reminders","due":[appointmentDTO],"listing"} for
//     appointments starting within the next 70 minutes.
//   - GET /appointments.ics: the stored appointments as an iCalendar feed.
//   - GET /healthz: 204 No Content.
//
// Request/response DTOs live in appointment_handler.go.
package http
