package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/imagefeed/internal/client/client"
	"github.com/dmitrijs2005/imagefeed/internal/client/models"
	"github.com/dmitrijs2005/imagefeed/internal/client/services"
)

// Login shows the authorization page, reads the code and signs in. The user
// may paste either the bare code or the whole redirect URL.
func (a *App) Login(ctx context.Context) error {
	switch st, _ := a.session.State(); st {
	case services.Authenticating:
	case services.Failed:
		a.println("The last sign-in failed. Type 'retry' first.")
		return services.ErrWrongState
	default:
		a.println("Already signed in.")
		return services.ErrWrongState
	}

	a.println("Open this page in a browser and grant access:")
	a.println("  " + a.oauth.AuthCodeURL(client.NewState()))

	input, err := GetSecret(a.reader, a.in, "Authorization code (or the page URL):", a.out)
	if err != nil {
		return err
	}
	code := input
	if c, ok := client.CodeFromRedirect(input); ok {
		code = c
	}

	st, err := a.session.Authenticate(ctx, code).Await(ctx)
	if st == services.Failed {
		a.println("Signed in, but the profile could not be loaded:", err)
		a.println("Type 'retry' and then 'login' to try again.")
		return err
	}
	if err != nil {
		return a.report("Login", err)
	}

	if p, ok := a.profile.Profile(); ok {
		a.printf("Signed in as %s.\n", p.LoginName)
	}
	return nil
}

// More loads the next page. The outcome is printed by the feed event
// handlers; only errors raised before any request are reported here.
func (a *App) More(ctx context.Context) error {
	if !a.requireReady() {
		return services.ErrWrongState
	}
	_, err := a.feed.FetchNextPage(ctx).Await(ctx)
	if errors.Is(err, client.ErrTokenMissing) {
		return a.report("Loading", err)
	}
	return err
}

// List prints the loaded photos.
func (a *App) List(ctx context.Context) error {
	if !a.requireReady() {
		return services.ErrWrongState
	}
	photos := a.feed.Photos()
	if len(photos) == 0 {
		a.println("No photos loaded. Type 'more' to load a page.")
		return nil
	}
	for i, p := range photos {
		a.println(formatPhoto(i, p))
	}
	return nil
}

func formatPhoto(i int, p models.Photo) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%3d. %-12s %5dx%-5d", i+1, p.ID, p.Size.Width, p.Size.Height)
	if p.CreatedAt != nil {
		b.WriteString(" " + p.CreatedAt.Format("02 Jan 2006"))
	} else {
		b.WriteString(" " + strings.Repeat(" ", len("02 Jan 2006")))
	}
	if p.Liked {
		b.WriteString(" ♥")
	} else {
		b.WriteString("  ")
	}
	if p.Description != "" {
		b.WriteString(" " + p.Description)
	}
	return strings.TrimRight(b.String(), " ")
}

// Like likes or unlikes a photo. The change is printed once the server
// confirms it.
func (a *App) Like(ctx context.Context, photoID string, liked bool) error {
	if !a.requireReady() {
		return services.ErrWrongState
	}
	_, err := a.feed.ChangeLike(ctx, photoID, liked).Await(ctx)
	return a.report("Like", err)
}

// Profile prints the signed-in user.
func (a *App) Profile(ctx context.Context) error {
	p, ok := a.profile.Profile()
	if !ok {
		a.println("No profile loaded.")
		return nil
	}
	a.println("Name:    ", p.Name)
	a.println("Login:   ", p.LoginName)
	if p.Bio != "" {
		a.println("Bio:     ", p.Bio)
	}
	if u, ok := a.avatar.AvatarURL(); ok {
		a.println("Avatar:  ", u)
	}
	return nil
}

// Status prints the session state and feed position.
func (a *App) Status(ctx context.Context) error {
	st, err := a.session.State()
	a.println("Session: ", st)
	if err != nil {
		a.println("Reason:  ", err)
	}
	a.printf("Feed:     page %d, %d photos\n", a.feed.Page(), len(a.feed.Photos()))
	return nil
}

// Retry leaves the failed state so the user can sign in again.
func (a *App) Retry(ctx context.Context) error {
	if _, err := a.session.Retry().Await(ctx); err != nil {
		if errors.Is(err, services.ErrWrongState) {
			a.println("Nothing to retry.")
			return err
		}
		return a.report("Retry", err)
	}
	a.println("Type 'login' to sign in.")
	return nil
}

// Logout forgets the token and every cached value.
func (a *App) Logout(ctx context.Context) error {
	if _, err := a.session.Logout(ctx).Await(ctx); err != nil {
		return a.report("Logout", err)
	}
	a.println("Signed out.")
	return nil
}

func (a *App) requireReady() bool {
	if a.isReady() {
		return true
	}
	st, _ := a.session.State()
	a.printf("Not available while %s. Type 'help' for commands.\n", st)
	return false
}

func (a *App) onFeedChanged(e services.FeedChanged) {
	if e.Reset {
		a.println("Feed cleared.")
		return
	}
	a.printf("Page %d: %d new photo(s), %d loaded.\n", e.Page, e.Added.Len(), e.Added.To)
}

func (a *App) onPhotoUpdated(e services.PhotoUpdated) {
	verb := "Unliked"
	if e.Photo.Liked {
		verb = "Liked"
	}
	a.printf("%s photo %s.\n", verb, e.Photo.ID)
}

func (a *App) onFetchFailed(e services.FetchFailed) {
	_ = a.report(fmt.Sprintf("Loading page %d", e.Page), e.Err)
}

func (a *App) onStateChanged(e services.StateChanged) {
	a.log.Debug(context.Background(), "session state", "from", e.From, "to", e.To)
	switch e.To {
	case services.FetchingProfile:
		a.println("Loading profile...")
	case services.Ready:
		a.println("Ready. Type 'more' to load photos.")
	}
}
