package source

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseEML(t *testing.T, raw string) *Message {
	t.Helper()
	src, err := NewEMLAdapter().Parse("test.eml", []byte(raw))
	require.NoError(t, err)
	msg, ok := src.(*Message)
	require.True(t, ok)
	return msg
}

func TestEMLAdapter_PlainMessage(t *testing.T) {
	raw := "From: =?UTF-8?Q?J=C3=B6rg_Broker?= <jorg@example.com>\r\n" +
		"Subject: Mortgage enquiry\r\n" +
		"Date: Mon, 2 Jun 2025 10:00:00 +0100\r\n" +
		"Content-Type: text/plain; charset=utf-8\r\n" +
		"\r\n" +
		"Applicant: John Smith\r\n"

	msg := parseEML(t, raw)
	ctx := context.Background()

	subject, _ := msg.Subject(ctx)
	assert.Equal(t, "Mortgage enquiry", subject)

	body, _ := msg.Body(ctx)
	assert.Equal(t, "Applicant: John Smith\n", body)

	info, err := msg.Info(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Jörg Broker <jorg@example.com>", info.From)
	assert.Equal(t, "Mon, 2 Jun 2025 10:00:00 +0100", info.Date)
	assert.Empty(t, info.Attachments)
}

func TestEMLAdapter_EncodedSubject(t *testing.T) {
	raw := "Subject: =?UTF-8?B?UHJvcGVydHkgwqMzMDAsMDAw?=\n\nbody\n"

	msg := parseEML(t, raw)
	subject, _ := msg.Subject(context.Background())
	assert.Equal(t, "Property £300,000", subject)
}

func TestEMLAdapter_MultipartPrefersPlainText(t *testing.T) {
	raw := `From: broker@example.com
Subject: Application pack
MIME-Version: 1.0
Content-Type: multipart/mixed; boundary="outer"

--outer
Content-Type: multipart/alternative; boundary="inner"

--inner
Content-Type: text/plain; charset=utf-8

Client: Jane Doe
--inner
Content-Type: text/html; charset=utf-8

<p>Client: <b>Someone Else</b></p>
--inner--
--outer
Content-Type: application/pdf; name="valuation.pdf"
Content-Disposition: attachment; filename="valuation.pdf"
Content-Transfer-Encoding: base64

JVBERi0xLjQK
--outer--
`

	msg := parseEML(t, raw)
	ctx := context.Background()

	body, _ := msg.Body(ctx)
	assert.Equal(t, "Client: Jane Doe", body)

	info, _ := msg.Info(ctx)
	assert.Equal(t, []string{"valuation.pdf (application/pdf)"}, info.Attachments)
}

func TestEMLAdapter_HTMLOnlyQuotedPrintable(t *testing.T) {
	raw := "Subject: Salary details\n" +
		"Content-Type: text/html; charset=utf-8\n" +
		"Content-Transfer-Encoding: quoted-printable\n" +
		"\n" +
		"<p>Salary: =C2=A355,000</p>\n"

	msg := parseEML(t, raw)
	body, _ := msg.Body(context.Background())
	assert.Equal(t, "Salary: £55,000", body)
}

func TestEMLAdapter_Base64Body(t *testing.T) {
	raw := "Subject: b64\n" +
		"Content-Type: text/plain\n" +
		"Content-Transfer-Encoding: base64\n" +
		"\n" +
		"SGVsbG8g\nd29ybGQ=\n"

	msg := parseEML(t, raw)
	body, _ := msg.Body(context.Background())
	assert.Equal(t, "Hello world", body)
}

func TestEMLAdapter_Latin1Charset(t *testing.T) {
	raw := "Subject: cafe\n" +
		"Content-Type: text/plain; charset=iso-8859-1\n" +
		"\n" +
		"Employer: Caf\xe9 Rouge Ltd\n"

	msg := parseEML(t, raw)
	body, _ := msg.Body(context.Background())
	assert.Equal(t, "Employer: Café Rouge Ltd\n", body)
}

func TestEMLAdapter_InlineImageIsAttachment(t *testing.T) {
	raw := `Subject: photo
Content-Type: multipart/related; boundary="b"

--b
Content-Type: text/plain

See photo
--b
Content-Type: image/png

iVBORw0KGgo=
--b--
`

	msg := parseEML(t, raw)
	info, _ := msg.Info(context.Background())
	assert.Equal(t, []string{"unnamed (image/png)"}, info.Attachments)

	body, _ := msg.Body(context.Background())
	assert.Equal(t, "See photo", body)
}

func TestEMLAdapter_Malformed(t *testing.T) {
	_, err := NewEMLAdapter().Parse("bad.eml", []byte("not an email"))
	assert.ErrorIs(t, err, ErrUnreadable)
}
