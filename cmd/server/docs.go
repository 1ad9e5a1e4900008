package main

//go:generate swag init -g cmd/server/main.go -o docs

// @title           lpscout API
// @version         0.1.0
// @description     Meteora DLMM pool cache, strategy recommendations and refresh controls.
// @host            localhost:3001
// @BasePath        /
// @schemes         http
