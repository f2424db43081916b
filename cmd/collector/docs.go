package main

//go:generate swag init -g cmd/collector/main.go -o docs

// @title           Market Events API
// @version         0.1.0
// @description     US market event collection: published events, collection runs and on-demand task triggers.
// @host            localhost:8080
// @BasePath        /
// @schemes         http
