package service

import (
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/gomail.v2"

	"katha/config"
	"katha/models"
	"katha/stats"
)

// EmailService 邮件服务
type EmailService struct {
	cfg *config.EmailConfig
}

// NewEmailService 创建邮件服务
func NewEmailService(cfg *config.EmailConfig) *EmailService {
	return &EmailService{cfg: cfg}
}

// Enabled 邮件服务是否可用
func (s *EmailService) Enabled() bool {
	return s != nil && s.cfg != nil && s.cfg.Enabled
}

// SendDebtReminder 给用户发送借贷到期提醒
func (s *EmailService) SendDebtReminder(user *models.User, items []stats.DebtView, currency string) error {
	if !s.Enabled() {
		return ErrMailDisabled
	}
	if user.Email == "" {
		return errors.New("user has no email address")
	}

	subject := fmt.Sprintf("【Katha】%d 笔借贷即将到期或已逾期", len(items))
	body := s.generateReminderBody(displayName(user), items, currency)

	return s.sendEmail(user.Email, subject, body)
}

func displayName(u *models.User) string {
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name == "" {
		return u.Email
	}
	return name
}

// generateReminderBody 生成提醒邮件内容
func (s *EmailService) generateReminderBody(name string, items []stats.DebtView, currency string) string {
	var rows strings.Builder
	for _, v := range items {
		direction := "借出给"
		if v.Type == models.DebtTypeBorrowed {
			direction = "借入自"
		}
		state := "即将到期"
		if v.Overdue {
			state = "已逾期"
		}
		due := ""
		if v.DueDate != nil {
			due = v.DueDate.Format(time.DateOnly)
		}
		fmt.Fprintf(&rows, `
            <tr>
                <td>%s %s</td>
                <td class="amount">%s %.2f</td>
                <td>%s</td>
                <td class="state">%s</td>
            </tr>`, direction, html.EscapeString(v.Person), html.EscapeString(currency), v.Amount, due, state)
	}

	return fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <style>
        body { font-family: 'Microsoft YaHei', Arial, sans-serif; background: #f5f5f5; margin: 0; padding: 20px; }
        .container { max-width: 600px; margin: 0 auto; background: #fff; border-radius: 12px; overflow: hidden; box-shadow: 0 4px 20px rgba(0,0,0,0.1); }
        .header { background: linear-gradient(135deg, #f59e0b, #d97706); color: white; padding: 30px; text-align: center; }
        .header h1 { margin: 0; font-size: 24px; }
        .content { padding: 30px; }
        .content p { color: #333; line-height: 1.8; margin: 0 0 20px; }
        table { width: 100%%; border-collapse: collapse; }
        td { padding: 10px 6px; border-bottom: 1px solid #eee; color: #333; font-size: 14px; }
        .amount { font-weight: 600; }
        .state { color: #dc2626; }
        .footer { background: #f8f9fa; padding: 20px 30px; text-align: center; color: #6c757d; font-size: 12px; }
    </style>
</head>
<body>
    <div class="container">
        <div class="header">
            <h1>📒 Katha</h1>
        </div>
        <div class="content">
            <p><strong>%s</strong>，您好！</p>
            <p>以下借贷记录需要处理：</p>
            <table>%s
            </table>
        </div>
        <div class="footer">
            <p>此邮件由系统自动发送，请勿回复</p>
        </div>
    </div>
</body>
</html>
`, html.EscapeString(name), rows.String())
}

// sendEmail 发送邮件
func (s *EmailService) sendEmail(to, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", m.FormatAddress(s.cfg.Username, s.cfg.From))
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	d := gomail.NewDialer(s.cfg.Host, s.cfg.Port, s.cfg.Username, s.cfg.Password)

	if err := d.DialAndSend(m); err != nil {
		return errors.Wrap(err, "发送邮件失败")
	}

	return nil
}
