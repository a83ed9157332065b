package helpers

import (
	"fmt"
	"html"
	"time"
)

func BuildSimpleHTML(title, body string) string {
	return fmt.Sprintf(`
<html>
  <body style="font-family:Arial,sans-serif; background:#f9f9f9;">
    <table width="100%%" cellpadding="0" cellspacing="0" bgcolor="#f9f9f9">
      <tr>
        <td align="center" style="padding:32px 0;">
          <table width="500" bgcolor="#fff" cellpadding="24" cellspacing="0" style="border-radius:8px; box-shadow:0 1px 6px #eee;">
            <tr>
              <td>
                <h2 style="color:#2d74da; margin-top:0;">%s</h2>
                <div style="font-size:16px; color:#222;">%s</div>
                <hr style="margin:32px 0 16px 0; border:0; border-top:1px solid #eee;">
                <div style="font-size:12px; color:#999;">This email was generated automatically. Please do not reply.</div>
              </td>
            </tr>
          </table>
        </td>
      </tr>
    </table>
  </body>
</html>
`, html.EscapeString(title), body)
}

// BuildVerificationCodeHTML: письмо с шестизначным кодом подтверждения.
func BuildVerificationCodeHTML(code string, ttl time.Duration) string {
	body := fmt.Sprintf(`
      <p>Thank you for signing up! Your verification code is:</p>
      <p style="font-size:32px;font-weight:bold;letter-spacing:6px;color:#2d74da;text-align:center;margin:24px 0;">%s</p>
      <p>Enter this code on the verification page to complete your registration.</p>
      <p style="font-size:14px; color:#666;">This code expires in %s.</p>
      <p style="font-size:14px; color:#666;">If you didn't create an account with us, please ignore this email.</p>
    `, html.EscapeString(code), humanizeTTL(ttl))
	return BuildSimpleHTML("Verify your email", body)
}

func BuildWelcomeHTML(name, appURL string) string {
	body := fmt.Sprintf(`
      <p>Hello, %s!</p>
      <p>Your email has been verified. Welcome aboard!</p>
      <p><a href="%s" style="display:inline-block;padding:12px 24px;background:#2d74da;color:#fff;text-decoration:none;border-radius:6px;font-weight:600;">Open the app</a></p>
    `, html.EscapeString(name), html.EscapeString(appURL))
	return BuildSimpleHTML("Welcome!", body)
}

func BuildPasswordResetHTML(resetLink string, ttl time.Duration) string {
	link := html.EscapeString(resetLink)
	body := fmt.Sprintf(`
      <p>We received a request to reset your password.</p>
      <p>
        <a href="%s" style="display:inline-block;padding:12px 24px;background:#2d74da;color:#fff;text-decoration:none;border-radius:5px;font-weight:bold;">
          Reset password
        </a>
      </p>
      <p style="font-size:14px; color:#666;">This link expires in %s.</p>
      <p style="font-size:12px; color:#999;">If the button doesn't work, copy the link: %s</p>
      <p style="font-size:12px; color:#999;">If you didn't request a password reset, please ignore this email.</p>
    `, link, humanizeTTL(ttl), link)
	return BuildSimpleHTML("Password reset", body)
}

func BuildResetSuccessHTML() string {
	body := `
      <p>Your password has been reset successfully.</p>
      <p>If you did not make this change, please contact support immediately.</p>
    `
	return BuildSimpleHTML("Password reset successful", body)
}

func humanizeTTL(d time.Duration) string {
	switch {
	case d >= 24*time.Hour && d%(24*time.Hour) == 0:
		days := int(d / (24 * time.Hour))
		if days == 1 {
			return "24 hours"
		}
		return fmt.Sprintf("%d days", days)
	case d >= time.Hour && d%time.Hour == 0:
		hours := int(d / time.Hour)
		if hours == 1 {
			return "1 hour"
		}
		return fmt.Sprintf("%d hours", hours)
	default:
		return fmt.Sprintf("%d minutes", int(d.Minutes()))
	}
}
