// Package jwt provides JSON Web Token utilities for the trainer API.
//
// Tokens are signed with RS256. The service loads an RSA key pair from
// PEM files; handlers that only validate tokens may be configured with
// just the public key.
//
// # Token Generation
//
//	service, err := jwt.NewService(jwt.Config{
//	    PrivateKeyPath: "keys/private.pem",
//	    Issuer:         "poketrainer-api",
//	    ExpirationMins: 15,
//	})
//
//	token, err := service.Sign(jwt.Claims{
//	    Subject:   trainer.ID,
//	    TrainerID: trainer.ID,
//	    Email:     trainer.Email,
//	    Role:      string(trainer.Role),
//	})
//
// # Token Validation
//
//	claims, err := service.Validate(tokenString)
//	if err != nil {
//	    // Invalid or expired token
//	}
//	trainerID := claims.TrainerID
package jwt
