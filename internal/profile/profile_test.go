package profile

import (
	"context"
	"strings"
	"testing"

	"github.com/ahmetcoskunkizilkaya/mentorconnect-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/mentorconnect-backend/internal/testutil"
	"github.com/google/uuid"
)

func TestLoadFullProfile(t *testing.T) {
	db := testutil.DB(t)
	id := testutil.User(t, db, models.RoleMentor)
	testutil.PersonalInfo(t, db, id, "Grace", "Hopper")
	testutil.Academic(t, db, id, "Computer Science")
	testutil.Employment(t, db, id, "Engineer")
	testutil.Skills(t, db, id, []string{"Go", "Design"}, []string{"Teaching"})
	testutil.Bio(t, db, id, "I build compilers and teach.")

	p, err := Load(context.Background(), db, id)
	if err != nil {
		t.Fatal(err)
	}
	if p.FullName() != "Grace Hopper" || len(p.Academic) != 1 || len(p.Employment) != 1 {
		t.Fatalf("profile = %+v", p)
	}
	if p.Academic[0].Award.Name == "" {
		t.Fatal("award not preloaded")
	}
	if got := p.SkillList(); len(got) != 2 || got[0] != "Go" || got[1] != "Design" {
		t.Fatalf("skills = %v", got)
	}
	if !strings.Contains(p.AcademicJSON(), `"course":"Computer Science"`) {
		t.Fatalf("academic json = %s", p.AcademicJSON())
	}
}

func TestLoadEmptyProfile(t *testing.T) {
	db := testutil.DB(t)
	id := testutil.User(t, db, models.RoleMentee)

	p, err := Load(context.Background(), db, id)
	if err != nil {
		t.Fatal(err)
	}
	if p.Personal != nil || p.Skills != nil || p.Bio != nil {
		t.Fatalf("expected empty 1:1 records, got %+v", p)
	}
	if p.AcademicJSON() != "[]" || p.BioText() != "" || len(p.InterestList()) != 0 {
		t.Fatal("unexpected summaries for empty profile")
	}
}

func TestUserIDsWithRoleAndCards(t *testing.T) {
	db := testutil.DB(t)
	m1 := testutil.User(t, db, models.RoleMentor)
	m2 := testutil.User(t, db, models.RoleMentor)
	testutil.User(t, db, models.RoleMentee)
	testutil.PersonalInfo(t, db, m2, "Alan", "Turing")

	ids, err := UserIDsWithRole(context.Background(), db, models.RoleMentor)
	if err != nil || len(ids) != 2 {
		t.Fatalf("ids = %v, %v", ids, err)
	}

	cards, err := Cards(context.Background(), db, []uuid.UUID{m1, m2}, 2)
	if err != nil {
		t.Fatal(err)
	}
	if cards[0].ID != m1 || cards[1].FirstName != "Alan" {
		t.Fatalf("cards = %+v", cards)
	}
}
