package app

import (
	"github.com/shandysiswandi/quickcart/internal/identity"
	"github.com/shandysiswandi/quickcart/internal/notification"
	"github.com/shandysiswandi/quickcart/internal/product"
)

// initModules registers every enabled module. Identity is always on since
// product resolves its callers through it.
func (a *App) initModules() {
	accounts, err := identity.New(identity.Dependency{
		DBConn:     a.dbConn,
		Limiter:    a.limiter,
		Router:     a.router,
		Messaging:  a.messaging,
		Mail:       a.mail,
		Config:     a.config,
		Instrument: a.ins,
		UID:        a.uid,
		HMAC:       a.hmac,
		Argon2ID:   a.argon2id,
		OTP:        a.otp,
		Clock:      a.clock,
		Validator:  a.validator,
		JWT:        a.jwt,
	})
	if err != nil {
		fatal("failed to init module identity", err)
	}

	if a.config.GetBool("modules.product.enabled") {
		if err := product.New(product.Dependency{
			DBConn:      a.dbConn,
			Accounts:    accounts,
			Enforcer:    a.casbin,
			Idempotency: a.idemp,
			Storage:     a.storage,
			Router:      a.router,
			Config:      a.config,
			Instrument:  a.ins,
			UID:         a.uid,
			UUID:        a.uuid,
			Clock:       a.clock,
			Validator:   a.validator,
		}); err != nil {
			fatal("failed to init module product", err)
		}
	}

	if a.config.GetBool("modules.notification.enabled") {
		if err := notification.New(notification.Dependency{
			Ctx:         a.ctx,
			Messaging:   a.messaging,
			Idempotency: a.idemp,
			Config:      a.config,
			Instrument:  a.ins,
			UUID:        a.uuid,
			Clock:       a.clock,
			Goroutine:   a.goroutine,
			Validator:   a.validator,
			Mail:        a.mail,
		}); err != nil {
			fatal("failed to init module notification", err)
		}
	}
}
