/*
Copyright 2025 The helpdesk-responder-sim Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package helpdeskrespondersim

import (
	"os"
	"path/filepath"
)

// GenerateTempCerts creates temporary SSL certificate and key files for testing
func GenerateTempCerts(tempDir string) (certFile, keyFile string, err error) {
	certPEM, keyPEM, err := CreateSelfSignedTLSCertificatePEM()
	if err != nil {
		return "", "", err
	}

	certFile = filepath.Join(tempDir, "cert.pem")
	if err := os.WriteFile(certFile, certPEM, 0644); err != nil {
		return "", "", err
	}

	keyFile = filepath.Join(tempDir, "key.pem")
	if err := os.WriteFile(keyFile, keyPEM, 0600); err != nil {
		return "", "", err
	}

	return certFile, keyFile, nil
}

// writeResponseFiles writes a keyword response file and a default response
// file for testing and returns their paths
func writeResponseFiles(tempDir string) (responsesFile, defaultsFile string, err error) {
	responses := "crash, crashes\n" +
		"Well, it never crashes on our system. It must have something\n" +
		"to do with your system. Tell me more about your configuration.\n" +
		"\n" +
		"slow\n" +
		"I think this has to do with your hardware.\n" +
		"\n" +
		"bug\n" +
		"Well, you know, all software has some bugs.\n"
	defaults := "That sounds odd. Could you describe that problem in more detail?\n" +
		"\n" +
		"No other customer has ever complained about this.\n" +
		"What is your system configuration?\n"

	responsesFile = filepath.Join(tempDir, "responses.txt")
	if err := os.WriteFile(responsesFile, []byte(responses), 0644); err != nil {
		return "", "", err
	}

	defaultsFile = filepath.Join(tempDir, "default.txt")
	if err := os.WriteFile(defaultsFile, []byte(defaults), 0644); err != nil {
		return "", "", err
	}

	return responsesFile, defaultsFile, nil
}
