package mailer

const bookingTemplates = `
{{define "details"}}
<table style="border-collapse: collapse; margin: 16px 0;">
	<tr><td style="padding: 4px 12px 4px 0; color: #666;">Service</td><td>{{.ServiceName}}</td></tr>
	<tr><td style="padding: 4px 12px 4px 0; color: #666;">Starts</td><td>{{when .StartTime}}</td></tr>
	<tr><td style="padding: 4px 12px 4px 0; color: #666;">Ends</td><td>{{when .EndTime}}</td></tr>
	<tr><td style="padding: 4px 12px 4px 0; color: #666;">Price</td><td>{{money .Price}}</td></tr>
</table>
{{end}}

{{define "confirmation"}}
<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
	<h2>Thanks, {{.CustomerName}}!</h2>
	<p>Your payment was received and your booking is confirmed.</p>
	{{template "details" .}}
	<a href="{{.FrontendURL}}/bookings" style="background-color: #2563EB; color: white; padding: 10px 20px; text-decoration: none; border-radius: 5px; display: inline-block;">View my bookings</a>
</div>
{{end}}

{{define "admin_new_booking"}}
<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
	<h2>New booking</h2>
	<p>{{.CustomerName}} ({{.CustomerEmail}}) booked a service.</p>
	{{template "details" .}}
	{{if .Notes}}<p><strong>Notes:</strong> {{.Notes}}</p>{{end}}
	<p style="color: #999; font-size: 12px;">Booking {{.BookingId}}</p>
</div>
{{end}}

{{define "approved"}}
<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
	<h2>Your booking is approved</h2>
	<p>Hi {{.CustomerName}}, we have approved your booking. See you soon!</p>
	{{template "details" .}}
</div>
{{end}}

{{define "rescheduled"}}
<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
	<h2>Your booking has moved</h2>
	<p>Hi {{.CustomerName}}, your appointment has been rescheduled.</p>
	{{if .PreviousStart}}<p style="color: #666;">Previously: <s>{{when .PreviousStart}}</s></p>{{end}}
	{{template "details" .}}
</div>
{{end}}

{{define "cancelled"}}
<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
	<h2>Your booking was cancelled</h2>
	<p>Hi {{.CustomerName}}, the booking below has been cancelled{{if eq .CancelledBy "admin"}} by our team{{end}}.</p>
	{{template "details" .}}
	{{if .Refunded}}
	<p>A refund of <strong>{{money .RefundAmount}}</strong> has been issued to your original payment method. It can take 5-10 business days to appear.</p>
	{{else if gt .RefundAmount 0}}
	<p>A refund of <strong>{{money .RefundAmount}}</strong> is due. Our team will process it shortly.</p>
	{{end}}
</div>
{{end}}

{{define "admin_cancellation"}}
<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
	<h2>Booking cancelled</h2>
	<p>{{.CustomerName}} ({{.CustomerEmail}}) booking was cancelled by {{.CancelledBy}}.</p>
	{{template "details" .}}
	<p><strong>Reason:</strong> {{.Reason}}</p>
	<p><strong>Refund:</strong> {{money .RefundAmount}}{{if not .Refunded}}{{if gt .RefundAmount 0}} (not issued, needs follow-up){{end}}{{end}}</p>
	<p style="color: #999; font-size: 12px;">Booking {{.BookingId}}</p>
</div>
{{end}}
`
