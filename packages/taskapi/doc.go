// Package taskapi is a small in-memory task manager API. It is the service
// that the bundled test pack exercises, and `hitsheet serve` runs it so packs
// can be tried without any other infrastructure.
//
// Routes:
//
//	GET    /             greeting
//	POST   /tasks/       create, 201
//	GET    /tasks/       list
//	GET    /tasks/{id}   fetch, 404 when absent
//	PUT    /tasks/{id}   partial update, 404 when absent
//	DELETE /tasks/{id}   delete, 404 when absent
//
// Invalid payloads and non-integer ids are answered with 422.
package taskapi
