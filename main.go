package main

import (
	"context"
	"time"

	"github.com/shandysiswandi/quickcart/internal/app"
)

// @title           QuickCart API
// @version         1.0
// @description     QuickCart provides account registration with email OTP, login and per-owner product management APIs.
// @contact.name    Contact Support
// @contact.email   support@quickcart.local
// @license.name    MIT
// @license.url     https://mit-license.org/
// @server          http://localhost:8080
// @securityDefinitions.apikey  BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT.
func main() {
	application := app.New()
	<-application.Start()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	application.Stop(ctx)
}
