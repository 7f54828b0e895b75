package config

import "os"

// FirebaseCredentialsPath returns the service account key used to verify admin
// ID tokens, falling back to GOOGLE_APPLICATION_CREDENTIALS.
func FirebaseCredentialsPath() string {
	if AppConfig.FirebaseCredentialsFile != "" {
		return AppConfig.FirebaseCredentialsFile
	}
	return os.Getenv("GOOGLE_APPLICATION_CREDENTIALS")
}
