// Package http provides HTTP handlers and middleware for the timetable API.
//
// The router exposes the following endpoints:
//   - GET /faculty, POST /faculty, GET|PUT|DELETE /faculty/{id}: faculty
//     registry endpoints exchanging the `facultyDTO` payload defined in
//     faculty_handler.go. GET /faculty?q=needle performs a case-insensitive
//     substring search over names and departments.
//   - GET /rooms, POST /rooms, GET|PUT|DELETE /rooms/{id}: room catalog
//     endpoints exchanging the `roomDTO` payload defined in room_handler.go.
//     GET /rooms?q=needle searches room numbers.
//   - GET /courses, POST /courses, GET|PUT|DELETE /courses/{id}: course
//     registry endpoints exchanging the `courseDTO` payload defined in
//     course_handler.go. GET /courses?q=needle searches codes and names.
//   - GET /timetables: lists stored timetables for administrators.
//   - POST /timetables: runs a generation for the key in the body and
//     returns the stored timetable, or 422 with error code UNSATISFIABLE
//     naming the offending course.
//   - GET /timetables/{semester}/{department}/{year}: returns the stored
//     timetable scoped to the requesting principal. Students pass their
//     enrolled course ids via ?courses=id1,id2.
//   - DELETE /timetables/{semester}/{department}/{year}: removes a stored
//     timetable; refused with 409 while a generation for the key runs.
//   - POST /timetables/{semester}/{department}/{year}/cancel: aborts the
//     in-flight generation for the key.
//
// Every request carries the caller identity in the X-User-ID and
// X-User-Role headers; credential verification is the fronting gateway's
// concern. Listing is available to any authenticated principal while
// mutations require the admin role.
//
// Request/response DTOs live alongside their respective handlers so tests
// and documentation share the same ground truth.
package http
