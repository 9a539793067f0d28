package services

import (
	"context"
	"testing"

	"contesto/internal/apperr"
	"contesto/internal/models"
)

func TestRegisterUser(t *testing.T) {
	ctx := context.Background()
	svc := NewUserService(newTestRepo(t))

	user, created, err := svc.Register(ctx, RegisterInput{Email: " New@Example.com ", PhotoURL: "https://img.example/a.png"})
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if !created || user.Email != "new@example.com" || user.Role != models.RoleUser {
		t.Fatalf("unexpected user %+v created=%v", user, created)
	}
	if user.Name == "" {
		t.Errorf("expected generated display name")
	}

	_, created, err = svc.Register(ctx, RegisterInput{Email: "new@example.com", Name: "Again"})
	if err != nil {
		t.Fatalf("duplicate Register failed: %v", err)
	}
	if created {
		t.Errorf("expected duplicate registration to be a no-op")
	}

	_, _, err = svc.Register(ctx, RegisterInput{Email: "not-an-email"})
	expectKind(t, err, apperr.KindValidation)
}

func TestRoleForAndUpdateRole(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	svc := NewUserService(repo)
	seedUser(t, repo, "admin@example.com", models.RoleAdmin)
	target := seedUser(t, repo, "user@example.com", models.RoleUser)
	seedUser(t, repo, "other@example.com", models.RoleUser)

	role, err := svc.RoleFor(ctx, "user@example.com", "user@example.com")
	if err != nil || role != models.RoleUser {
		t.Fatalf("own role: %v %s", err, role)
	}

	_, err = svc.RoleFor(ctx, "other@example.com", "user@example.com")
	expectKind(t, err, apperr.KindForbidden)

	if _, err := svc.RoleFor(ctx, "admin@example.com", "user@example.com"); err != nil {
		t.Fatalf("admin lookup: %v", err)
	}

	_, err = svc.UpdateRole(ctx, target.ID, models.Role("owner"))
	expectKind(t, err, apperr.KindValidation)

	updated, err := svc.UpdateRole(ctx, target.ID, models.RoleCreator)
	if err != nil {
		t.Fatalf("UpdateRole: %v", err)
	}
	if updated.Role != models.RoleCreator {
		t.Errorf("expected creator role, got %s", updated.Role)
	}
}

func TestCreatorApplicationWorkflow(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	creators := NewCreatorService(repo)
	users := NewUserService(repo)
	seedUser(t, repo, "admin@example.com", models.RoleAdmin)
	seedUser(t, repo, "artist@example.com", models.RoleUser)

	_, err := creators.Apply(ctx, "admin@example.com", ApplyInput{})
	expectKind(t, err, apperr.KindForbidden)

	_, err = creators.Apply(ctx, "ghost@example.com", ApplyInput{})
	expectKind(t, err, apperr.KindNotFound)

	app, err := creators.Apply(ctx, "artist@example.com", ApplyInput{Experience: "10 years of illustration"})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if app.Status != models.ApplicationPending || app.Name == "" {
		t.Errorf("unexpected application %+v", app)
	}

	_, err = creators.Apply(ctx, "artist@example.com", ApplyInput{})
	expectKind(t, err, apperr.KindConflict)

	if _, err := creators.SetStatus(ctx, app.ID, models.ApplicationApproved); err != nil {
		t.Fatalf("approve: %v", err)
	}
	if role, _ := users.RoleOf(ctx, "artist@example.com"); role != models.RoleCreator {
		t.Errorf("expected creator role after approval, got %s", role)
	}

	if _, err := creators.SetStatus(ctx, app.ID, models.ApplicationRejected); err != nil {
		t.Fatalf("reject: %v", err)
	}
	if role, _ := users.RoleOf(ctx, "artist@example.com"); role != models.RoleUser {
		t.Errorf("expected user role after rejection, got %s", role)
	}

	if _, err := creators.SetStatus(ctx, app.ID, models.ApplicationApproved); err != nil {
		t.Fatalf("re-approve: %v", err)
	}
	if err := creators.Delete(ctx, app.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if role, _ := users.RoleOf(ctx, "artist@example.com"); role != models.RoleUser {
		t.Errorf("expected demotion after delete, got %s", role)
	}

	list, _ := creators.List(ctx, "")
	if len(list) != 0 {
		t.Errorf("expected no applications, got %d", len(list))
	}
}

func TestProfileAndSearch(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	svc := NewUserService(repo)

	seedUser(t, repo, "dana@example.com", models.RoleUser)
	seedUser(t, repo, "eli@example.com", models.RoleUser)

	name := "  Dana Painter "
	bio := "watercolor"
	user, err := svc.UpdateProfile(ctx, "DANA@example.com", ProfileUpdate{Name: &name, Bio: &bio})
	if err != nil {
		t.Fatalf("UpdateProfile failed: %v", err)
	}
	if user.Name != "Dana Painter" || user.Bio != "watercolor" {
		t.Fatalf("unexpected profile %+v", user)
	}

	empty := " "
	_, err = svc.UpdateProfile(ctx, "dana@example.com", ProfileUpdate{Name: &empty})
	expectKind(t, err, apperr.KindValidation)

	_, err = svc.Profile(ctx, "ghost@example.com")
	expectKind(t, err, apperr.KindNotFound)

	found, err := svc.Search(ctx, "PAINTER")
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(found) != 1 || found[0].Email != "dana@example.com" {
		t.Fatalf("expected only dana, got %d results", len(found))
	}
}
