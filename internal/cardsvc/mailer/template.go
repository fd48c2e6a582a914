package mailer

import (
	"fmt"
	"time"
)

// welcomeBody renders the fixed welcome template in both HTML and plain
// text. company is optional.
func welcomeBody(name, company, fromName string) (html, plain string) {
	companyLineHTML := ""
	companyLinePlain := ""
	if company != "" {
		companyLineHTML = fmt.Sprintf(
			`<p style="margin: 0 0 15px 0; color: #666666; font-size: 16px; line-height: 1.6;">We look forward to staying connected with you and <strong>%s</strong>.</p>`,
			company,
		)
		companyLinePlain = fmt.Sprintf("We look forward to staying connected with you and %s.\n\n", company)
	}

	year := time.Now().Year()

	html = fmt.Sprintf(`<!DOCTYPE html>
<html>
  <head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
  </head>
  <body style="margin: 0; padding: 0; font-family: Arial, sans-serif; background-color: #f4f4f4;">
    <table role="presentation" style="width: 100%%; border-collapse: collapse;">
      <tr>
        <td align="center" style="padding: 40px 0;">
          <table role="presentation" style="width: 600px; border-collapse: collapse; background-color: #ffffff;">
            <tr>
              <td style="padding: 40px 30px; background: linear-gradient(135deg, #667eea 0%%, #764ba2 100%%);">
                <h1 style="margin: 0; color: #ffffff; font-size: 28px;">Welcome to Our Network!</h1>
              </td>
            </tr>
            <tr>
              <td style="padding: 40px 30px;">
                <h2 style="margin: 0 0 20px 0; color: #333333; font-size: 24px;">Hello %s!</h2>
                <p style="margin: 0 0 15px 0; color: #666666; font-size: 16px; line-height: 1.6;">
                  Thank you for connecting with us. Your business card information has been successfully saved in our system.
                </p>
                %s
                <p style="margin: 0 0 15px 0; color: #666666; font-size: 16px; line-height: 1.6;">
                  If you have any questions or need assistance, please don't hesitate to reach out to us.
                </p>
                <p style="margin: 30px 0 0 0; color: #666666; font-size: 16px; line-height: 1.6;">
                  Best regards,<br><strong style="color: #333333;">%s</strong>
                </p>
              </td>
            </tr>
            <tr>
              <td style="padding: 30px; background-color: #f8f9fa; border-top: 1px solid #e9ecef;">
                <p style="margin: 0 0 10px 0; color: #999999; font-size: 12px; text-align: center;">
                  This email was sent because your business card was scanned into our system.<br>
                  &copy; %d %s. All rights reserved.
                </p>
                <p style="margin: 0; color: #999999; font-size: 11px; text-align: center;">
                  <a href="[unsubscribe]" style="color: #667eea; text-decoration: none;">Unsubscribe</a> |
                  <a href="[unsubscribe_preferences]" style="color: #667eea; text-decoration: none;">Email Preferences</a>
                </p>
              </td>
            </tr>
          </table>
        </td>
      </tr>
    </table>
  </body>
</html>`, name, companyLineHTML, fromName, year, fromName)

	plain = fmt.Sprintf(`Hello %s!

Thank you for connecting with us. Your business card information has been successfully saved in our system.

%sIf you have any questions or need assistance, please don't hesitate to reach out to us.

Best regards,
%s

---
This email was sent because your business card was scanned into our system.
(c) %d %s. All rights reserved.

To unsubscribe, visit: [unsubscribe]
Manage email preferences: [unsubscribe_preferences]
`, name, companyLinePlain, fromName, year, fromName)

	return html, plain
}
