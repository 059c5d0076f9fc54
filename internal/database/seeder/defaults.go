package seeder

import "skill-swap/internal/domain/user"

// DemoPassword is the password of every demo account.
const DemoPassword = "password123"

type demoUser struct {
	Name          string
	Email         string
	Location      string
	Availability  user.Availability
	SkillsOffered []string
	SkillsWanted  []string
}

var demoUsers = []demoUser{
	{Name: "Alice Martin", Email: "alice@example.com", Location: "Berlin", Availability: user.AvailabilityWeekends, SkillsOffered: []string{"Guitar", "Spanish"}, SkillsWanted: []string{"Piano"}},
	{Name: "Bob Chen", Email: "bob@example.com", Location: "Toronto", Availability: user.AvailabilityEvenings, SkillsOffered: []string{"Piano", "Go"}, SkillsWanted: []string{"Guitar"}},
	{Name: "Carla Rossi", Email: "carla@example.com", Location: "Milan", Availability: user.AvailabilityFlexible, SkillsOffered: []string{"Cooking"}, SkillsWanted: []string{"Photography", "Go"}},
}

type demoRequest struct {
	SenderEmail   string
	ReceiverEmail string
	OfferedSkill  string
	WantedSkill   string
	Message       string
}

var demoRequests = []demoRequest{
	{SenderEmail: "alice@example.com", ReceiverEmail: "bob@example.com", OfferedSkill: "Guitar", WantedSkill: "Piano", Message: "Weekend sessions?"},
	{SenderEmail: "carla@example.com", ReceiverEmail: "bob@example.com", OfferedSkill: "Cooking", WantedSkill: "Go"},
}

// Defaults returns the seeders in dependency order.
func Defaults(bcryptCost int) []Seeder {
	return []Seeder{
		UsersSeeder{BcryptCost: bcryptCost},
		SwapRequestsSeeder{},
	}
}
