package core

import (
	"log"

	"github.com/netgrid/backend/internal/model"
)

// Login matches the credential pair against the stored user set and
// issues a session token. A failed match is always ErrUnauthorized;
// the error never says whether the username or the password was wrong.
func (c *Core) Login(username, password string) (string, model.Role, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.login(username, password)
}

// VerifyToken resolves a live token to the owning user's role.
func (c *Core) VerifyToken(token string) (model.Role, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	userID, err := c.tokens.Lookup(token)
	if err != nil {
		return model.RoleUnauthorized, err
	}
	user, err := c.userByID(userID)
	if err != nil {
		return model.RoleUnauthorized, err
	}
	return user.Role, nil
}

// RenewToken replaces a live token with a fresh one for the same user.
// Callers verify the token first, so an absent token here points at an
// internal inconsistency; it is logged but reported as an ordinary
// error.
func (c *Core) RenewToken(oldToken string) (string, model.User, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	newToken, err := c.tokens.Renew(oldToken, c.hardTimeoutMin)
	if err != nil {
		log.Printf("[Auth] renew of verified token failed: %v", err)
		return "", model.User{}, err
	}
	userID, err := c.tokens.Lookup(newToken)
	if err != nil {
		return "", model.User{}, err
	}
	user, err := c.userByID(userID)
	if err != nil {
		return "", model.User{}, err
	}
	return newToken, user, nil
}

// Logout revokes the token. Logging out an unknown token succeeds.
func (c *Core) Logout(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tokens.Revoke(token)
}

// GetUserIDByToken resolves a live token to its user id.
func (c *Core) GetUserIDByToken(token string) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.tokens.Lookup(token)
}

// CheckTokenHardTimeout sweeps expired, forged and password-invalidated
// tokens out of the store. Safe to call from a periodic timer.
func (c *Core) CheckTokenHardTimeout() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tokens.Sweep()
}

// CLILogin authenticates like Login but remembers the issued token in
// the single CLI session slot.
func (c *Core) CLILogin(username, password string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	token, _, err := c.login(username, password)
	if err != nil {
		return "", err
	}
	c.cliToken = token
	return token, nil
}

// CheckCLITokenExist reports whether the CLI session is live: a token
// was issued through CLILogin and has not been swept or revoked since.
func (c *Core) CheckCLITokenExist() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cliToken == "" {
		return notFound("token", "(cli)")
	}
	if _, err := c.tokens.Lookup(c.cliToken); err != nil {
		return notFound("token", "(cli)")
	}
	return nil
}

// ListUsers returns the stored user set.
func (c *Core) ListUsers() ([]model.User, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	users, err := c.users.LoadAll()
	if err != nil {
		return nil, internal("load users", err)
	}
	return users, nil
}

// AddUser stores a new user record. The username must not collide.
func (c *Core) AddUser(username, password string, role model.Role, profiles []string) (model.User, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	users, err := c.users.LoadAll()
	if err != nil {
		return model.User{}, internal("load users", err)
	}
	for _, u := range users {
		if u.Username == username {
			return model.User{}, badRequest("username already exists")
		}
	}
	user := model.User{
		ID:       model.UnassignedUserID,
		Username: username,
		Password: password,
		Role:     role,
		Profiles: profiles,
	}
	saved, err := c.users.Save(user)
	if err != nil {
		return model.User{}, internal("save user", err)
	}
	return saved, nil
}

// ChangePassword rewrites the user's credential and marks every token
// issued before the change for removal on the next sweep.
func (c *Core) ChangePassword(userID int, newPassword string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	user, err := c.userByID(userID)
	if err != nil {
		return err
	}
	user.Password = newPassword
	if _, err := c.users.Save(user); err != nil {
		return internal("save user", err)
	}
	c.tokens.MarkPasswordChanged(userID)
	return nil
}

// SetUserRole updates the user's role.
func (c *Core) SetUserRole(userID int, role model.Role) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	user, err := c.userByID(userID)
	if err != nil {
		return err
	}
	user.Role = role
	if _, err := c.users.Save(user); err != nil {
		return internal("save user", err)
	}
	return nil
}

// SetUserProfiles replaces the user's licensed service profiles.
func (c *Core) SetUserProfiles(userID int, profiles []string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	user, err := c.userByID(userID)
	if err != nil {
		return err
	}
	user.Profiles = profiles
	if _, err := c.users.Save(user); err != nil {
		return internal("save user", err)
	}
	return nil
}

// DeleteUser removes the record identified by the id + username pair
// and drops the live tokens of that user on the next sweep.
func (c *Core) DeleteUser(userID int, username string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.users.Delete(userID, username); err != nil {
		return notFound("user", username)
	}
	c.tokens.MarkPasswordChanged(userID)
	return nil
}

// login requires c.mu held.
func (c *Core) login(username, password string) (string, model.Role, error) {
	users, err := c.users.LoadAll()
	if err != nil {
		return "", model.RoleUnauthorized, internal("load users", err)
	}
	for _, u := range users {
		if u.Username == username && u.Password == password {
			token, err := c.tokens.Issue(u.ID, c.hardTimeoutMin)
			if err != nil {
				return "", model.RoleUnauthorized, err
			}
			return token, u.Role, nil
		}
	}
	return "", model.RoleUnauthorized, ErrUnauthorized
}

// userByID requires c.mu held.
func (c *Core) userByID(userID int) (model.User, error) {
	users, err := c.users.LoadAll()
	if err != nil {
		return model.User{}, internal("load users", err)
	}
	for _, u := range users {
		if u.ID == userID {
			return u, nil
		}
	}
	return model.User{}, notFound("user", "")
}
