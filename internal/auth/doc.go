// Package auth provides accounts and authentication for the application.
//
// The account Service registers users, checks credentials and applies
// password-gated updates and deletion. Passwords are stored as bcrypt hashes.
//
// # Configuration
//
//	AUTH_SESSION_LIFETIME=24h              # Session duration
//	AUTH_BCRYPT_COST=12                    # bcrypt cost factor
//	AUTH_SECURE_COOKIES=true               # HTTPS-only cookies
//	AUTH_CSRF_ENABLED=false                # CSRF checks for cookie-authenticated requests
//	AUTH_SESSION_SECRET=<hex-32-bytes>     # CSRF signing key, auto-generated if empty
//	AUTH_MAX_LOGIN_ATTEMPTS=5              # Failed logins before lockout
//	AUTH_RATE_LIMIT_WINDOW=15m
//	AUTH_LOCKOUT_DURATION=30m
//
// # Usage
//
//	accounts := auth.NewService(users.NewRepository(db.DB), cfg.Auth, auditService)
//	sessions := auth.NewSessionManager(sqlDB, cfg.Auth)
//	router.Use(sessions.SessionLoadSave(), sessions.SessionUser())
//
// Extract the logged-in user in handlers:
//
//	userID := auth.GetUserID(c) // 0 when there is no session
package auth
