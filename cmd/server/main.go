package main

import "crmhub/internal/app"

// @title           CRM Hub API
// @version         1.0
// @description     Role-based CRM: users, tasks, leads and reports.

// @host      localhost:8080
// @BasePath  /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	app.Run()
}
