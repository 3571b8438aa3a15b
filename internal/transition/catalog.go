package transition

import (
	"slices"

	"github.com/roach88/designrail/internal/card"
)

// FlowID is the flow every canned card belongs to.
const FlowID = "slice-1"

const inspectStep = 2

var interpretOptions = []card.Option{
	{ID: "data-model", Label: "Define the data model", Summary: "Entities, relationships, and permissions for the domain."},
	{ID: "screens", Label: "Sketch main screens", Summary: "Layouts and navigation for the primary workflows."},
	{ID: "flows", Label: "Shape the flows", Summary: "Key user journeys, error states, and confirmations."},
}

var proposeOptions = []card.Option{
	{ID: "minimal", Label: "Minimal: list + details overlay", Summary: "Keep it lean with a projects list and a focused task view overlay."},
	{ID: "dashboard", Label: "Dashboard: overview + project pages", Summary: "Start from a dashboard with KPIs and jump into richer project pages."},
	{ID: "workspace", Label: "Workspace: sidebar with sections", Summary: "Use a persistent sidebar to switch between projects and task-focused views."},
}

type mockupSketch struct {
	title       string
	description string
	regions     []card.Region
}

// mockups are the canonical layouts keyed by propose option id.
var mockups = map[string]mockupSketch{
	"minimal": {
		title:       "Minimal split layout sketch",
		description: "Projects list with a lightweight task overlay for quick triage.",
		regions: []card.Region{
			{ID: "toolbar", Label: "Top toolbar", Layout: card.LayoutShelf, Notes: "Project switcher, new-task button, compact filters."},
			{ID: "projects-list", Label: "Projects list", Layout: card.LayoutBookcase, Notes: "Stacked rows with status, owner, and quick stats."},
			{ID: "task-overlay", Label: "Task overlay", Layout: card.LayoutLibrary, Notes: "Slide-in panel showing task details + comments."},
		},
	},
	"dashboard": {
		title:       "Dashboard overview sketch",
		description: "Hero metrics up top, spotlight cards, and a focus panel for the selected project.",
		regions: []card.Region{
			{ID: "nav-rail", Label: "Navigation rail", Layout: card.LayoutLibrary, Role: card.RoleSidebar, Notes: "Pinned spaces, alerts, quick create, profile switcher."},
			{ID: "overview-band", Label: "Overview band", Layout: card.LayoutShelf, Role: card.RoleSwitcher, Notes: "Date range selector, KPI filters, announcement slot."},
			{ID: "metric-grid", Label: "Metric cards", Layout: card.LayoutBookcase, Role: card.RoleContent, Notes: "Velocity, blockers, team load, links to deeper dashboards."},
			{ID: "project-focus", Label: "Project focus panel", Layout: card.LayoutLibrary, Role: card.RoleContent, Notes: "Split canvas with updates, timeline, and task highlights for the selected project."},
		},
	},
	"workspace": {
		title:       "Workspace navigation sketch",
		description: "Persistent sidebar anchors navigation while canvas shifts per project.",
		regions: []card.Region{
			{ID: "sidebar", Label: "Workspace sidebar", Layout: card.LayoutLibrary, Role: card.RoleSidebar, Notes: "Workspace selector, pinned projects, quick actions."},
			{ID: "overview-band", Label: "Overview band", Layout: card.LayoutShelf, Role: card.RoleSwitcher, Notes: "Project health, notifications, upcoming work."},
			{ID: "canvas-split", Label: "Canvas split", Layout: card.LayoutLibrary, Role: card.RoleContent, Notes: "Primary task board with contextual drawer on the right."},
		},
	},
}

func interpretCard(id string) *card.InterpretCard {
	return &card.InterpretCard{
		Base: card.Base{
			ID:          id,
			Title:       "What did you have in mind?",
			Description: "Pick the interpretation that best matches your goal so we can dive in.",
			FlowID:      FlowID,
		},
		Options: slices.Clone(interpretOptions),
	}
}

func proposeCard(id string) *card.ProposeCard {
	return &card.ProposeCard{
		Base: card.Base{
			ID:          id,
			Title:       "Here are a few ways we could shape this",
			Description: "Pick the architecture that feels closest to your app so we can refine it.",
			FlowID:      FlowID,
		},
		Options: slices.Clone(proposeOptions),
	}
}

// mockupFor returns the canned mockup for a propose option id.
func mockupFor(optionID, id string) (*card.MockupCard, bool) {
	m, ok := mockups[optionID]
	if !ok {
		return nil, false
	}
	return &card.MockupCard{
		Base: card.Base{
			ID:          id,
			Title:       m.title,
			Description: m.description,
			FlowID:      FlowID,
			StepIndex:   card.Step(inspectStep),
		},
		Regions: slices.Clone(m.regions),
	}, true
}

func fallbackLens(id string) *card.LensCard {
	return &card.LensCard{
		Base: card.Base{
			ID:          id,
			Title:       "Dashboard entity lens",
			Description: "Captures the dashboard sections implied by the architecture choice.",
			FlowID:      FlowID,
			StepIndex:   card.Step(inspectStep),
		},
		LensType: card.LensScreens,
		Payload: card.LensPayload{
			Sections: []card.LensSection{
				{ID: "hero", Label: "Header", Contents: []string{"Nav", "Profile", "Global search"}},
				{ID: "metrics", Label: "KPIs", Contents: []string{"Velocity", "At-risk projects", "Team load"}},
				{ID: "projects", Label: "Projects grid", Contents: []string{"Status", "Owners", "Quick actions", "Alerts"}},
			},
			CallsToAction: []string{"Create project", "Open triage queue", "Share report"},
		},
	}
}

// MockupOptions returns the option ids that have a canned mockup.
func MockupOptions() []string {
	return []string{"minimal", "dashboard", "workspace"}
}
