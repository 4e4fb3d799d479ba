package validation

import "testing"

const localDomain = "anonaddy.com"

func TestCheckDomainName(t *testing.T) {
	tests := []struct {
		name   string
		domain string
		wantOK bool
	}{
		{"valid domain", "example.com", true},
		{"valid subdomain", "mail.example.com", true},
		{"valid with hyphen", "my-domain.example.com", true},
		{"valid with numbers", "mail1.example2.com", true},
		{"empty", "", false},
		{"trailing dot empty label", "example.", false},
		{"single label", "example", false},
		{"with scheme", "https://example.com", false},
		{"with other scheme", "ftp://example.com", false},
		{"local domain", "anonaddy.com", false},
		{"subdomain of local domain", "subdomain.anonaddy.com", false},
		{"empty label", "mail..example.com", false},
		{"label starts with hyphen", "-mail.example.com", false},
		{"label ends with hyphen", "mail-.example.com", false},
		{"underscore", "mail_server.example.com", false},
		{"space", "mail server.example.com", false},
		{"numeric tld", "example.123", false},
		{"label too long", "abcdefghijklmnopqrstuvwxyzabcdefghijklmnopqrstuvwxyzabcdefghijklmn.example.com", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := CheckDomainName(tt.domain, localDomain)
			if (msg == "") != tt.wantOK {
				t.Errorf("CheckDomainName(%q) = %q, want ok=%v", tt.domain, msg, tt.wantOK)
			}
		})
	}
}

func TestCheckDomainNameLocalDomainCaseInsensitive(t *testing.T) {
	if msg := CheckDomainName("Sub.AnonAddy.Com", localDomain); msg == "" {
		t.Error("expected local subdomain to be rejected regardless of case")
	}
}

func TestIsFQDNRejectsOverlongName(t *testing.T) {
	long := ""
	for i := 0; i < 50; i++ {
		long += "abcde."
	}
	long += "com"
	if IsFQDN(long) {
		t.Errorf("expected %d-char name to be rejected", len(long))
	}
}
