package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/brizzai/hotel-console/internal/authapi"
	"github.com/brizzai/hotel-console/internal/requester"
	"github.com/brizzai/hotel-console/internal/session"
	"github.com/brizzai/hotel-console/internal/tui/models"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"gopkg.in/yaml.v3"
)

type profileKeyMap struct {
	edit        key.Binding
	uploadPhoto key.Binding
	deletePhoto key.Binding
	export      key.Binding
	logout      key.Binding
	back        key.Binding
}

func newProfileKeyMap() *profileKeyMap {
	return &profileKeyMap{
		edit: key.NewBinding(
			key.WithKeys("u"),
			key.WithHelp("u", "Edit profile"),
		),
		uploadPhoto: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "Upload photo"),
		),
		deletePhoto: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "Delete photo"),
		),
		export: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "Export profile"),
		),
		logout: key.NewBinding(
			key.WithKeys("l"),
			key.WithHelp("l", "Log out"),
		),
		back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "Back"),
		),
	}
}

type profilePrompt int

const (
	promptNone profilePrompt = iota
	promptExport
	promptPhoto
)

type profileSavedMsg struct {
	id     int
	status string
	err    error
}

func (m profileSavedMsg) owner() int { return m.id }

// ProfileView shows the signed-in user. It edits the photo in place, exports
// the profile, hands over to the edit form, and logs out.
type ProfileView struct {
	id        int
	session   *session.Store
	account   ProfileEditor
	profile   *authapi.Profile
	keys      *profileKeyMap
	prompt    profilePrompt
	textInput textinput.Model
	busy      bool
	status    string
	width     int
}

func newProfileView(id int, store *session.Store, account ProfileEditor, status string) ProfileView {
	ti := textinput.New()
	ti.Width = 40

	m := ProfileView{
		id:        id,
		session:   store,
		account:   account,
		profile:   store.GetState().CurrentUser,
		keys:      newProfileKeyMap(),
		textInput: ti,
	}
	if status != "" {
		m.status = completeMessageStyle(status)
	}
	return m
}

func (m ProfileView) Title() string   { return "Profile" }
func (m ProfileView) Capturing() bool { return m.prompt != promptNone }
func (m ProfileView) Init() tea.Cmd   { return nil }

func (m ProfileView) Update(msg tea.Msg) (screen, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case profileSavedMsg:
		m.busy = false
		m.profile = m.session.GetState().CurrentUser
		if msg.err != nil {
			m.status = errorMessageStyle(requester.UserMessage(msg.err))
		} else {
			m.status = completeMessageStyle(msg.status)
		}
		return m, nil

	case tea.KeyMsg:
		if m.prompt != promptNone {
			return m.updatePrompt(msg)
		}
		if m.busy {
			return m, nil
		}
		switch {
		case key.Matches(msg, m.keys.back):
			return m, back
		case key.Matches(msg, m.keys.edit):
			return m, navigate(ViewEditProfile, "")
		case key.Matches(msg, m.keys.uploadPhoto):
			return m.openPrompt(promptPhoto, "photo.jpg")
		case key.Matches(msg, m.keys.deletePhoto):
			if m.profile == nil || m.profile.ProfilePhotoURL == "" {
				m.status = statusMessageStyle("No photo to delete")
				return m, nil
			}
			m.busy = true
			m.status = ""
			account := m.account
			return m, m.save("Photo deleted", account.DeleteProfileImage)
		case key.Matches(msg, m.keys.export):
			return m.openPrompt(promptExport, "profile.yaml")
		case key.Matches(msg, m.keys.logout):
			store := m.session
			// Clear notifies subscribers, which feed back into the program.
			return m, func() tea.Msg {
				store.Clear()
				return nil
			}
		}
	}
	return m, nil
}

func (m ProfileView) openPrompt(p profilePrompt, placeholder string) (screen, tea.Cmd) {
	m.prompt = p
	m.status = ""
	m.textInput.Reset()
	m.textInput.Placeholder = placeholder
	cmd := m.textInput.Focus()
	return m, cmd
}

// save runs action with the session token, then reloads the profile so the
// session and this view show the change.
func (m ProfileView) save(status string, action func(ctx context.Context, token string) error) tea.Cmd {
	id, store := m.id, m.session
	return func() tea.Msg {
		ctx := context.Background()
		if err := action(ctx, store.GetState().AccessToken); err != nil {
			return profileSavedMsg{id: id, err: err}
		}
		if err := store.Refresh(ctx); err != nil {
			return profileSavedMsg{id: id, err: err}
		}
		return profileSavedMsg{id: id, status: status}
	}
}

func (m ProfileView) updatePrompt(msg tea.KeyMsg) (screen, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.prompt = promptNone
		m.textInput.Blur()
		return m, nil
	case "enter":
		if m.prompt == promptPhoto {
			return m.submitPhoto()
		}
		return m.submitExport()
	}

	var cmd tea.Cmd
	m.textInput, cmd = m.textInput.Update(msg)
	return m, cmd
}

func (m ProfileView) submitExport() (screen, tea.Cmd) {
	filename := strings.TrimSpace(m.textInput.Value())
	if filename == "" {
		m.status = "Please enter a filename"
		return m, nil
	}
	if !strings.HasSuffix(filename, ".yaml") && !strings.HasSuffix(filename, ".yml") {
		filename += ".yaml"
	}
	if err := ExportProfileToYamlFile(m.profile, filename); err != nil {
		m.status = errorMessageStyle(fmt.Sprintf("Error exporting: %v", err))
		return m, nil
	}
	m.prompt = promptNone
	m.textInput.Blur()
	m.status = completeMessageStyle(fmt.Sprintf("Successfully exported to %s", filename))
	return m, nil
}

func (m ProfileView) submitPhoto() (screen, tea.Cmd) {
	path := strings.TrimSpace(m.textInput.Value())
	if path == "" {
		m.status = "Please enter the path of an image"
		return m, nil
	}
	m.prompt = promptNone
	m.textInput.Blur()
	m.busy = true
	account := m.account
	return m, m.save("Photo updated", func(ctx context.Context, token string) error {
		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()
		return account.UploadProfileImage(ctx, token, filepath.Base(path), f)
	})
}

func (m ProfileView) View() string {
	var sb strings.Builder
	sb.WriteString(titleStyle.Render("Profile"))
	sb.WriteString("\n\n")

	p := m.profile
	if p == nil {
		sb.WriteString("No profile loaded.\n")
	} else {
		sb.WriteString(renderFields([]models.Field{
			{Label: "Name", Value: p.DisplayName()},
			{Label: "Username", Value: p.Username},
			{Label: "Email", Value: p.Email},
			{Label: "Phone", Value: p.PhoneNumber},
			{Label: "City", Value: p.City},
			{Label: "Photo", Value: p.ProfilePhotoURL},
			{Label: "Roles", Value: strings.Join(p.Roles, ", ")},
			{Label: "Signed in with", Value: p.ProviderType},
		}))
	}
	sb.WriteString("\n")

	switch m.prompt {
	case promptExport:
		sb.WriteString("Enter filename to export the profile:\n")
	case promptPhoto:
		sb.WriteString("Enter the path of the new profile photo:\n")
	}
	if m.prompt != promptNone {
		sb.WriteString(m.textInput.View())
		sb.WriteString("\n\n")
	}
	if m.busy {
		sb.WriteString("Saving...\n\n")
	} else if m.status != "" {
		sb.WriteString(m.status)
		sb.WriteString("\n\n")
	}

	switch m.prompt {
	case promptExport:
		sb.WriteString(helpStyle.Render("(esc) Cancel | (enter) Export"))
	case promptPhoto:
		sb.WriteString(helpStyle.Render("(esc) Cancel | (enter) Upload"))
	default:
		sb.WriteString(helpStyle.Render("(u) Edit | (p) Photo | (d) Delete photo | (e) Export | (l) Log out | (esc) Back"))
	}
	return docStyle.Render(sb.String())
}

// ExportProfileToYamlFile writes the profile to filename as YAML
func ExportProfileToYamlFile(profile *authapi.Profile, filename string) error {
	if profile == nil {
		return errors.New("no profile to export")
	}
	yamlData, err := yaml.Marshal(profile)
	if err != nil {
		return err
	}
	return os.WriteFile(filename, yamlData, 0o600)
}
