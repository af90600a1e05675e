// Package i18n holds the user-facing message catalogs (English and Japanese).
package i18n

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Message keys. Values in the catalogs may carry fmt verbs.
const (
	AuthRequired   = "auth.required"
	Unreachable    = "api.unreachable"
	ListFailed     = "api.list_failed"
	CreateFailed   = "api.create_failed"
	UpdateFailed   = "api.update_failed"
	DeleteFailed   = "api.delete_failed"
	SessionMissing = "auth.session_missing"
	GenericError   = "error.generic"

	CheckingAuth   = "app.checking_auth"
	Loading        = "app.loading"
	FetchError     = "app.fetch_error"
	AppTitle       = "app.title"
	Logout         = "app.logout"
	Empty          = "app.empty"
	NewPlaceholder = "app.new_placeholder"
	Add            = "app.add"
	Adding         = "app.adding"
	Save           = "app.save"
	Saving         = "app.saving"
	Cancel         = "app.cancel"
	Delete         = "app.delete"
	Deleting       = "app.deleting"
	Edit           = "app.edit"
	ConfirmDelete  = "app.confirm_delete"
	ErrorHelp      = "app.error_help"
	ListHelp       = "app.list_help"
	InputHelp      = "app.input_help"
	EditHelp       = "app.edit_help"
	ListPosition   = "app.list_position"

	LoginTitle       = "login.title_signin"
	SignupTitle      = "login.title_signup"
	NameLabel        = "login.name"
	EmailLabel       = "login.email"
	PasswordLabel    = "login.password"
	LoginPending     = "login.pending"
	ToSignin         = "login.switch_to_signin"
	ToSignup         = "login.switch_to_signup"
	LoginHelp        = "login.help"
	TitleRequired    = "validation.title_required"
	EmailRequired    = "validation.email_required"
	PasswordTooShort = "validation.password_short"

	StatusTodo  = "status.todo"
	StatusDoing = "status.doing"
	StatusDone  = "status.done"
)

var catalogs = map[language.Tag]map[string]string{
	language.English: {
		AuthRequired:   "Authentication required",
		Unreachable:    "Cannot connect to the backend server. Check that the server is running.",
		ListFailed:     "HTTP error! status: %d",
		CreateFailed:   "Failed to create the task",
		UpdateFailed:   "Failed to update the task",
		DeleteFailed:   "Failed to delete the task",
		SessionMissing: "Signed in, but the session could not be retrieved. Reload and try again.",
		GenericError:   "An error occurred",

		CheckingAuth:   "Checking authentication...",
		Loading:        "Loading...",
		FetchError:     "An error occurred: %s",
		AppTitle:       "Todo App",
		Logout:         "Log out",
		Empty:          "No tasks",
		NewPlaceholder: "Add a new task",
		Add:            "Add",
		Adding:         "Adding...",
		Save:           "Save",
		Saving:         "Saving...",
		Cancel:         "Cancel",
		Delete:         "Delete",
		Deleting:       "Deleting...",
		Edit:           "Edit",
		ConfirmDelete:  "Delete this task?",
		ErrorHelp:      "r: retry  L: log out  q: quit",
		ListHelp:       "tab: new task  space: toggle  e: edit  d: delete  r: refresh  L: log out  ?: help  q: quit",
		InputHelp:      "enter: add  tab/esc: back to list",
		EditHelp:       "enter: save  esc: cancel",
		ListPosition:   "%d of %d",

		LoginTitle:       "Log in",
		SignupTitle:      "Sign up",
		NameLabel:        "Name",
		EmailLabel:       "Email",
		PasswordLabel:    "Password",
		LoginPending:     "Processing...",
		ToSignin:         "Already have an account? Log in",
		ToSignup:         "Don't have an account? Sign up",
		LoginHelp:        "tab: next field  enter: submit  ctrl+t: %s  ctrl+c: quit",
		TitleRequired:    "Title must not be empty",
		EmailRequired:    "Email is required",
		PasswordTooShort: "Password must be at least %d characters",

		StatusTodo:  "todo",
		StatusDoing: "doing",
		StatusDone:  "done",
	},
	language.Japanese: {
		AuthRequired:   "認証が必要です",
		Unreachable:    "バックエンドサーバーに接続できません。サーバーが起動しているか確認してください。",
		ListFailed:     "HTTP error! status: %d",
		CreateFailed:   "タスクの作成に失敗しました",
		UpdateFailed:   "タスクの更新に失敗しました",
		DeleteFailed:   "タスクの削除に失敗しました",
		SessionMissing: "ログインに成功しましたが、セッションの取得に失敗しました。ページをリロードしてください。",
		GenericError:   "エラーが発生しました",

		CheckingAuth:   "認証状態を確認中...",
		Loading:        "読み込み中...",
		FetchError:     "エラーが発生しました: %s",
		AppTitle:       "Todo App",
		Logout:         "ログアウト",
		Empty:          "タスクがありません",
		NewPlaceholder: "Add a new task",
		Add:            "Add",
		Adding:         "追加中...",
		Save:           "保存",
		Saving:         "保存中...",
		Cancel:         "キャンセル",
		Delete:         "削除",
		Deleting:       "削除中...",
		Edit:           "編集",
		ConfirmDelete:  "このタスクを削除しますか？",
		ErrorHelp:      "r: 再試行  L: ログアウト  q: 終了",
		ListHelp:       "tab: 新規タスク  space: 完了切替  e: 編集  d: 削除  r: 再読込  L: ログアウト  ?: ヘルプ  q: 終了",
		InputHelp:      "enter: 追加  tab/esc: 一覧へ戻る",
		EditHelp:       "enter: 保存  esc: キャンセル",
		ListPosition:   "%d / %d",

		LoginTitle:       "ログイン",
		SignupTitle:      "サインアップ",
		NameLabel:        "名前",
		EmailLabel:       "メールアドレス",
		PasswordLabel:    "パスワード",
		LoginPending:     "処理中...",
		ToSignin:         "既にアカウントをお持ちですか？ログイン",
		ToSignup:         "アカウントをお持ちでない方はサインアップ",
		LoginHelp:        "tab: 次の項目  enter: 送信  ctrl+t: %s  ctrl+c: 終了",
		TitleRequired:    "タイトルを入力してください",
		EmailRequired:    "メールアドレスを入力してください",
		PasswordTooShort: "パスワードは%d文字以上で入力してください",

		StatusTodo:  "未着手",
		StatusDoing: "進行中",
		StatusDone:  "完了",
	},
}

func init() {
	for tag, msgs := range catalogs {
		for key, msg := range msgs {
			// SetString only fails on an undefined tag.
			_ = message.SetString(tag, key, msg)
		}
	}
}

// Printer renders catalog messages for one language.
type Printer struct {
	tag language.Tag
	p   *message.Printer
}

// New returns a printer for lang ("en", "ja", "ja-JP", ...). Unknown or empty
// languages fall back to English.
func New(lang string) *Printer {
	tag := language.English
	if lang = strings.TrimSpace(lang); lang != "" {
		tag = message.MatchLanguage(lang, "en")
	}
	base, _ := tag.Base()
	switch base.String() {
	case "ja":
		tag = language.Japanese
	default:
		tag = language.English
	}
	return &Printer{tag: tag, p: message.NewPrinter(tag)}
}

// Default is the English printer.
func Default() *Printer { return New("en") }

func (p *Printer) Lang() string {
	if p == nil {
		return "en"
	}
	return p.tag.String()
}

// T renders the message for key, formatting args with fmt verbs.
func (p *Printer) T(key string, args ...any) string {
	if p == nil {
		p = Default()
	}
	return p.p.Sprintf(key, args...)
}
