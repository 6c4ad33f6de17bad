package accounts

// Message catalog keys. Error titles and messages are sourced from the
// catalog so host applications can localize them; the defaults are the
// product's Polish strings.
const (
	MsgTokenNotFoundTitle    = "error.tokennotfound.title"
	MsgTokenNotFound         = "error.tokennotfound.message"
	MsgTokenConsumed         = "error.tokenconsumed.message"
	MsgTokenExpired          = "error.tokenexpired.message"
	MsgResourceNotFoundTitle = "error.resourcenotfound.title"
	MsgResourceNotFound      = "error.resourcenotfound.message"
	MsgUsernameNotFound      = "error.usernamenotfound.message"
	MsgDeletionBlockedTitle  = "error.entitydeletion.delete.title"
	MsgRoleRemovalTitle      = "error.entitydeletion.role.title"
	MsgSoleAdminDeletion     = "error.entitydeletion.soleadmin.delete.message"
	MsgSoleAdminRoleRemoval  = "error.entitydeletion.soleadmin.role.message"
	MsgNotAnAdmin            = "error.entitydeletion.notadmin.message"
	MsgMailErrorTitle        = "error.mail.title"
	MsgMailError             = "error.mail.message"
	MsgAppName               = "email.app.name"
	MsgRegistrationSubject   = "registration.mail.subject"
	MsgPasswordResetSubject  = "passwordreset.mail.subject"
	MsgTokenResendSubject    = "resend.mail.subject"
	MsgTokenValidityNote     = "token.validation.time.message"
)

var defaultMessages = map[string]string{
	MsgTokenNotFoundTitle:    "Token nie znaleziony",
	MsgTokenNotFound:         "Podany token nie istnieje",
	MsgTokenConsumed:         "Token został już wykorzystany",
	MsgTokenExpired:          "Token stracił ważność",
	MsgResourceNotFoundTitle: "Brak użytkownika",
	MsgResourceNotFound:      "Użytkownik nie istnieje",
	MsgUsernameNotFound:      "There is no such user",
	MsgDeletionBlockedTitle:  "Nie można usunąć",
	MsgRoleRemovalTitle:      "Nie można usunąć funkcji admina",
	MsgSoleAdminDeletion:     "Jesteś jedynym administratorem. Przed usunięciem siebie nadaj innemu użytkownikowi status ADMINA",
	MsgSoleAdminRoleRemoval:  "Jesteś jedynym administratorem. Przed usunięciem funkcji nadaj innemu użytkownikowi status ADMINA",
	MsgNotAnAdmin:            "Ten użytkownik nie posiada statusu admina",
	MsgMailErrorTitle:        "Nie można wysłać",
	MsgMailError:             "Wystąpił błąd podczas wysyłania. Spróbuj ponownie",
	MsgAppName:               "Charity Donation App",
	MsgRegistrationSubject:   "Potwierdź swoją rejestrację",
	MsgPasswordResetSubject:  "Zresetuj swoje hasło",
	MsgTokenResendSubject:    "Nowy token weryfikacyjny",
	MsgTokenValidityNote:     "Token jest ważny przez",
}

// Messages resolves catalog keys to user-facing strings. The zero value
// serves the defaults; overrides win key by key.
type Messages struct {
	overrides map[string]string
}

// NewMessages builds a catalog with the given overrides layered over
// the defaults.
func NewMessages(overrides map[string]string) *Messages {
	return &Messages{overrides: overrides}
}

// Get resolves a key: override first, then default, then the key itself
// so a missing entry is visible instead of silent.
func (m *Messages) Get(key string) string {
	if m != nil && m.overrides != nil {
		if v, ok := m.overrides[key]; ok {
			return v
		}
	}
	if v, ok := defaultMessages[key]; ok {
		return v
	}
	return key
}

func normalizeMessages(m *Messages) *Messages {
	if m == nil {
		return &Messages{}
	}
	return m
}
