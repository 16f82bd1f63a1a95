// Package api provides the HR bank REST API.
//
//	@title			HR Bank API
//	@version		1.0
//	@description	Employee data backup runs and their artifacts.
//	@BasePath		/api
package api

//go:generate swag init -g doc.go -d .,../model,../core -o docs --outputTypes go
