package sqlite

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/apexdigital/apex/internal/models"
	"github.com/apexdigital/apex/internal/storage"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	store, err := New(dbPath)
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func createTestUser(t *testing.T, store *SQLiteStore, email string) *models.User {
	t.Helper()
	user := models.NewUser("Test User", email, "$2a$04$hash")
	if err := store.CreateUser(context.Background(), user); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	return user
}

func TestNewCreatesParentDirectories(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "data", "nested", "apex.db")
	store, err := New(dbPath)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer store.Close()

	if err := store.Ping(context.Background()); err != nil {
		t.Fatalf("Ping failed: %v", err)
	}
	if _, err := os.Stat(dbPath); err != nil {
		t.Errorf("database file not created: %v", err)
	}

	store.Close()
	if err := store.Ping(context.Background()); err == nil {
		t.Error("Ping after Close succeeded")
	}
}

func TestSQLiteStoreUsers(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	t.Run("CreateUser and lookups", func(t *testing.T) {
		user := models.NewUser("Sipho", "sipho@example.com", "$2a$04$hash")
		user.Company = "Sipho Media"
		if err := store.CreateUser(ctx, user); err != nil {
			t.Fatalf("CreateUser failed: %v", err)
		}

		byEmail, err := store.GetUserByEmail(ctx, "sipho@example.com")
		if err != nil {
			t.Fatalf("GetUserByEmail failed: %v", err)
		}
		if byEmail.ID != user.ID || byEmail.Company != "Sipho Media" || byEmail.Phone != "" {
			t.Errorf("unexpected user: %+v", byEmail)
		}
		if byEmail.Role != models.RoleClient {
			t.Errorf("expected client role, got %q", byEmail.Role)
		}

		byID, err := store.GetUserByID(ctx, user.ID)
		if err != nil {
			t.Fatalf("GetUserByID failed: %v", err)
		}
		if byID.Email != user.Email {
			t.Errorf("email mismatch: got %s, want %s", byID.Email, user.Email)
		}
	})

	t.Run("duplicate email", func(t *testing.T) {
		dup := models.NewUser("Other", "sipho@example.com", "$2a$04$hash")
		if err := store.CreateUser(ctx, dup); !errors.Is(err, storage.ErrDuplicateEmail) {
			t.Fatalf("expected ErrDuplicateEmail, got %v", err)
		}
	})

	t.Run("missing user", func(t *testing.T) {
		if _, err := store.GetUserByEmail(ctx, "nobody@example.com"); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
		if _, err := store.GetUserByID(ctx, "nonexistent-id"); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("SetUserRole and ListUsers", func(t *testing.T) {
		createTestUser(t, store, "admin@example.com")
		if err := store.SetUserRole(ctx, "admin@example.com", models.RoleAdmin); err != nil {
			t.Fatalf("SetUserRole failed: %v", err)
		}
		if err := store.SetUserRole(ctx, "ghost@example.com", models.RoleAdmin); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}

		users, err := store.ListUsers(ctx)
		if err != nil {
			t.Fatalf("ListUsers failed: %v", err)
		}
		if len(users) != 2 {
			t.Fatalf("expected 2 users, got %d", len(users))
		}
		var admins int
		for _, u := range users {
			if u.IsAdmin() {
				admins++
			}
		}
		if admins != 1 {
			t.Errorf("expected 1 admin, got %d", admins)
		}
	})
}

func TestSQLiteStoreProjects(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	owner := createTestUser(t, store, "owner@example.com")

	roles := []string{"Conversation Designer", "NLP Specialist", "Integration Engineer", "Senior NLP Specialist"}

	var projectID string
	t.Run("CreateProjectWithAgents generates ID and agents", func(t *testing.T) {
		project := &models.Project{
			Code:        "APX-240115-ABC123",
			UserID:      owner.ID,
			Service:     "Chatbots & Agents",
			Package:     "professional",
			Description: "Support bot",
		}
		agents, err := store.CreateProjectWithAgents(ctx, project, roles)
		if err != nil {
			t.Fatalf("CreateProjectWithAgents failed: %v", err)
		}
		if project.ID == "" || project.CreatedAt == 0 {
			t.Error("expected ID and CreatedAt to be set")
		}
		if project.Status != models.ProjectPending {
			t.Errorf("expected pending status, got %q", project.Status)
		}
		if len(agents) != len(roles) {
			t.Fatalf("expected %d agents, got %d", len(roles), len(agents))
		}
		projectID = project.ID
	})

	t.Run("agents are listed in composed order", func(t *testing.T) {
		agents, err := store.ListAgentsByProject(ctx, projectID)
		if err != nil {
			t.Fatalf("ListAgentsByProject failed: %v", err)
		}
		if len(agents) != len(roles) {
			t.Fatalf("expected %d agents, got %d", len(roles), len(agents))
		}
		for i, agent := range agents {
			if agent.Role != roles[i] {
				t.Errorf("agent %d role = %q, want %q", i, agent.Role, roles[i])
			}
			if agent.Status != models.AgentAssigned {
				t.Errorf("agent %d status = %q, want assigned", i, agent.Status)
			}
		}
	})

	t.Run("duplicate code writes nothing", func(t *testing.T) {
		dup := &models.Project{
			Code:        "APX-240115-ABC123",
			UserID:      owner.ID,
			Service:     "Content Creation",
			Package:     "starter",
			Description: "Video",
		}
		if _, err := store.CreateProjectWithAgents(ctx, dup, []string{"Copywriter"}); !errors.Is(err, storage.ErrDuplicateCode) {
			t.Fatalf("expected ErrDuplicateCode, got %v", err)
		}
		projects, err := store.ListProjectsByUser(ctx, owner.ID)
		if err != nil {
			t.Fatalf("ListProjectsByUser failed: %v", err)
		}
		if len(projects) != 1 {
			t.Errorf("expected 1 project, got %d", len(projects))
		}
	})

	t.Run("unknown owner violates foreign key", func(t *testing.T) {
		orphan := &models.Project{
			Code:        "APX-240115-ZZZ999",
			UserID:      "no-such-user",
			Service:     "Content Creation",
			Package:     "starter",
			Description: "Orphan",
		}
		if _, err := store.CreateProjectWithAgents(ctx, orphan, []string{"Copywriter"}); err == nil {
			t.Fatal("expected foreign key error, got nil")
		}
	})

	t.Run("StartProject activates agents once", func(t *testing.T) {
		project, err := store.StartProject(ctx, projectID)
		if err != nil {
			t.Fatalf("StartProject failed: %v", err)
		}
		if project.Status != models.ProjectInProgress {
			t.Errorf("expected in_progress, got %q", project.Status)
		}

		agents, err := store.ListAgentsByProject(ctx, projectID)
		if err != nil {
			t.Fatalf("ListAgentsByProject failed: %v", err)
		}
		for _, agent := range agents {
			if agent.Status != models.AgentActive {
				t.Errorf("agent %q status = %q, want active", agent.Role, agent.Status)
			}
		}

		if _, err := store.StartProject(ctx, projectID); !errors.Is(err, storage.ErrInvalidTransition) {
			t.Errorf("expected ErrInvalidTransition, got %v", err)
		}
		if _, err := store.StartProject(ctx, "nonexistent-id"); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestSQLiteStorePayments(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	payer := createTestUser(t, store, "payer@example.com")

	now := time.Date(2024, time.March, 15, 12, 0, 0, 0, time.UTC)
	monthStart := time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)

	payments := []*models.Payment{
		{
			UserID:        payer.ID,
			Amount:        decimal.RequireFromString("1000"),
			TransactionID: "PAY-1",
			Status:        models.PaymentCompleted,
			CreatedAt:     now.Unix(),
			AIUpgrade:     decimal.RequireFromString("200"),
			ReserveFund:   decimal.RequireFromString("200"),
			OwnerRevenue:  decimal.RequireFromString("600"),
			DistributedAt: now.Unix(),
		},
		{
			UserID:        payer.ID,
			Amount:        decimal.RequireFromString("99.99"),
			TransactionID: "PAY-2",
			Status:        models.PaymentCompleted,
			CreatedAt:     monthStart.Add(-time.Hour).Unix(),
			AIUpgrade:     decimal.RequireFromString("20"),
			ReserveFund:   decimal.RequireFromString("20"),
			OwnerRevenue:  decimal.RequireFromString("59.99"),
			DistributedAt: monthStart.Add(-time.Hour).Unix(),
		},
	}

	for _, p := range payments {
		if err := store.CreatePayment(ctx, p); err != nil {
			t.Fatalf("CreatePayment failed: %v", err)
		}
		if p.Currency != models.DefaultCurrency {
			t.Errorf("expected default currency, got %q", p.Currency)
		}
	}

	t.Run("duplicate transaction id", func(t *testing.T) {
		dup := *payments[0]
		dup.ID = ""
		if err := store.CreatePayment(ctx, &dup); !errors.Is(err, storage.ErrDuplicateTransaction) {
			t.Fatalf("expected ErrDuplicateTransaction, got %v", err)
		}
	})

	t.Run("amount beyond int64 cents is rejected", func(t *testing.T) {
		huge := decimal.RequireFromString("100000000000000000")
		p := &models.Payment{
			UserID:        payer.ID,
			Amount:        huge,
			TransactionID: "PAY-HUGE",
			Status:        models.PaymentCompleted,
			AIUpgrade:     decimal.RequireFromString("20000000000000000"),
			ReserveFund:   decimal.RequireFromString("20000000000000000"),
			OwnerRevenue:  decimal.RequireFromString("60000000000000000"),
		}
		if err := store.CreatePayment(ctx, p); err == nil {
			t.Fatal("expected error for amount that overflows int64 cents")
		}
	})

	t.Run("ListPaymentsByUser round-trips amounts exactly", func(t *testing.T) {
		got, err := store.ListPaymentsByUser(ctx, payer.ID)
		if err != nil {
			t.Fatalf("ListPaymentsByUser failed: %v", err)
		}
		if len(got) != 2 {
			t.Fatalf("expected 2 payments, got %d", len(got))
		}
		if got[0].TransactionID != "PAY-1" {
			t.Errorf("expected newest first, got %s", got[0].TransactionID)
		}
		second := got[1]
		if !second.Amount.Equal(decimal.RequireFromString("99.99")) {
			t.Errorf("amount = %s, want 99.99", second.Amount)
		}
		sum := second.AIUpgrade.Add(second.ReserveFund).Add(second.OwnerRevenue)
		if !sum.Equal(second.Amount) {
			t.Errorf("shares sum to %s, want %s", sum, second.Amount)
		}
	})

	t.Run("DashboardStats", func(t *testing.T) {
		stats, err := store.DashboardStats(ctx, monthStart.Unix())
		if err != nil {
			t.Fatalf("DashboardStats failed: %v", err)
		}
		if !stats.TotalRevenue.Equal(decimal.RequireFromString("1099.99")) {
			t.Errorf("total revenue = %s, want 1099.99", stats.TotalRevenue)
		}
		if !stats.MonthlyRevenue.Equal(decimal.RequireFromString("1000")) {
			t.Errorf("monthly revenue = %s, want 1000", stats.MonthlyRevenue)
		}
		if stats.TotalProjects != 0 || stats.ActiveProjects != 0 {
			t.Errorf("unexpected project counts: %+v", stats)
		}
	})
}

func TestToCents(t *testing.T) {
	tests := []struct {
		amount  string
		want    int64
		wantErr bool
	}{
		{amount: "0", want: 0},
		{amount: "99.99", want: 9999},
		{amount: "1000", want: 100000},
		{amount: "92233720368547758.07", want: 9223372036854775807},
		{amount: "92233720368547758.08", wantErr: true},
		{amount: "100000000000000000", wantErr: true},
		{amount: "10.005", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.amount, func(t *testing.T) {
			got, err := toCents(decimal.RequireFromString(tt.amount))
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %d", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("toCents failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("toCents(%s) = %d, want %d", tt.amount, got, tt.want)
			}
		})
	}
}
