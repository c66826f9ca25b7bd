// Copyright (c) 2026 Unimart. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

// # Credential Constraints

const (
	// PasswordMaxLength is bcrypt's input limit in bytes.
	PasswordMaxLength = 72

	// FieldPassword is the payload key reported in password validation details.
	FieldPassword = "password"
)
