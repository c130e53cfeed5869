package main

// General API documentation for swaggo. Regenerate with `swag init -g cmd/predictd/docs.go -o docs`.
//
// @title           predictd API
// @version         1.0
// @description     HTTP API serving batch predictions from a single ONNX model.
//
// @contact.name   predictd maintainers
//
// @license.name   MIT
// @license.url    https://opensource.org/licenses/MIT
//
// @BasePath  /
//
// @schemes http
