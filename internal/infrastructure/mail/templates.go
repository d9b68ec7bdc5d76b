package mail

import "html/template"

var verificationTemplate = template.Must(template.New("verification").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #1f2937;">
  <h2 style="color: #2563eb;">MediConnect</h2>
  <p>Use the code below to verify your email address:</p>
  <p style="font-size: 28px; font-weight: bold; letter-spacing: 6px;">{{.Code}}</p>
  <p>This code expires in {{.Expires}}. If you did not request it, ignore this email.</p>
</body>
</html>`))

var confirmationTemplate = template.Must(template.New("confirmation").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #1f2937;">
  <h2 style="color: #16a34a;">Appointment confirmed</h2>
  <p>Dear {{.PatientName}},</p>
  <p>{{.Message}}</p>
  <table style="border-collapse: collapse;">
    <tr><td style="padding: 4px 12px 4px 0;"><strong>Doctor</strong></td><td>{{.DoctorName}}</td></tr>
    {{if .Hospital}}<tr><td style="padding: 4px 12px 4px 0;"><strong>Hospital</strong></td><td>{{.Hospital}}</td></tr>{{end}}
    <tr><td style="padding: 4px 12px 4px 0;"><strong>Date</strong></td><td>{{.Date}}</td></tr>
    <tr><td style="padding: 4px 12px 4px 0;"><strong>Time</strong></td><td>{{.TimeSlot}}</td></tr>
  </table>
  <p>Please arrive 10 minutes early.</p>
</body>
</html>`))
