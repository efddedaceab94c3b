package main

import (
	"fmt"
)

type LoginCmd struct {
	Email    string `short:"e" required:"" help:"Account email"`
	Password string `short:"p" required:"" help:"Account password"`
}

func (c *LoginCmd) Run(a *App) error {
	if err := a.requireAnonymous(); err != nil {
		return err
	}
	ctx, cancel := a.ctx()
	defer cancel()

	if err := a.Session.Login(ctx, c.Email, c.Password); err != nil {
		return fmt.Errorf("login failed: %w", err)
	}
	fmt.Fprintln(a.Out, "login success")
	return nil
}

type RegisterCmd struct {
	Username string `short:"u" required:"" help:"Display name"`
	Email    string `short:"e" required:"" help:"Account email"`
	Password string `short:"p" required:"" help:"Account password"`
}

func (c *RegisterCmd) Run(a *App) error {
	if err := a.requireAnonymous(); err != nil {
		return err
	}
	ctx, cancel := a.ctx()
	defer cancel()

	if err := a.Session.Register(ctx, c.Username, c.Email, c.Password); err != nil {
		return fmt.Errorf("registration failed: %w", err)
	}
	fmt.Fprintln(a.Out, "registered; log in to continue")
	return nil
}

type GoogleLoginCmd struct {
	Token string `arg:"" help:"Identity provider credential"`
}

func (c *GoogleLoginCmd) Run(a *App) error {
	if err := a.requireAnonymous(); err != nil {
		return err
	}
	ctx, cancel := a.ctx()
	defer cancel()

	if err := a.Session.LoginWithGoogle(ctx, c.Token); err != nil {
		return fmt.Errorf("google login failed: %w", err)
	}
	fmt.Fprintln(a.Out, "login success")
	return nil
}

type LogoutCmd struct{}

func (c *LogoutCmd) Run(a *App) error {
	a.Session.Logout()
	fmt.Fprintln(a.Out, "logged out")
	return nil
}

type WhoamiCmd struct{}

func (c *WhoamiCmd) Run(a *App) error {
	state := a.Session.State()
	fmt.Fprintf(a.Out, "session: %s\n", state)
	if name := a.Session.Username(); name != "" {
		fmt.Fprintf(a.Out, "user: %s\n", name)
	}
	return nil
}
