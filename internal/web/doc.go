// Package web serves the upload form for the transformation pipeline.
//
// Routes:
//   - GET /: the upload form, showing any notice passed in ?notice=
//   - POST /process: multipart upload; returns the transformed image as an
//     attachment, or redirects to / with a notice on failure
//   - GET /healthz: liveness probe
//
// Set DEBUG=image-transform:* to trace request handling.
package web
