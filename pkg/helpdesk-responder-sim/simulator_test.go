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
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"os"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/valyala/fasthttp/fasthttputil"
	"k8s.io/klog/v2"

	"github.com/helpdesk-sim/helpdesk-responder-sim/pkg/common"
	"github.com/helpdesk-sim/helpdesk-responder-sim/pkg/responder"
	responderapi "github.com/helpdesk-sim/helpdesk-responder-sim/pkg/responder-api"
)

const baseURL = "http://localhost"

const crashResponse = "Well, it never crashes on our system. It must have something\n" +
	"to do with your system. Tell me more about your configuration."

var defaultResponses = []string{
	"That sounds odd. Could you describe that problem in more detail?",
	"No other customer has ever complained about this.\nWhat is your system configuration?",
}

func startServer(ctx context.Context) (*http.Client, error) {
	responsesFile, defaultsFile, err := writeResponseFiles(GinkgoT().TempDir())
	Expect(err).NotTo(HaveOccurred())

	return startServerWithArgs(ctx, []string{"cmd",
		"--responses-file", responsesFile,
		"--default-responses-file", defaultsFile,
		"--seed", "100"})
}

func startServerWithArgs(ctx context.Context, args []string) (*http.Client, error) {
	oldArgs := os.Args
	defer func() {
		os.Args = oldArgs
	}()
	os.Args = args

	logger := klog.Background()

	s, err := New(logger)
	if err != nil {
		return nil, err
	}
	config, err := common.ParseCommandParamsAndLoadConfig()
	if err != nil {
		return nil, err
	}
	s.config = config

	common.InitRandom(s.config.Seed)

	s.initResponder()

	if err := s.createAndRegisterPrometheus(); err != nil {
		return nil, err
	}

	// run request processing workers
	for i := 1; i <= s.config.MaxNumWorkers; i++ {
		go s.reqProcessingWorker(ctx, i)
	}

	listener := fasthttputil.NewInmemoryListener()

	// start the http server
	go func() {
		if err := s.startServer(ctx, listener); err != nil {
			logger.Error(err, "error starting server")
		}
	}()

	return &http.Client{
		Transport: &http.Transport{
			DialContext: func(_ context.Context, _, _ string) (net.Conn, error) {
				return listener.Dial()
			},
			TLSClientConfig: &tls.Config{
				InsecureSkipVerify: true,
			},
		},
	}, nil
}

func postRespond(client *http.Client, body string) (*responderapi.RespondResponse, int, error) {
	resp, err := client.Post(baseURL+"/v1/respond", "application/json",
		bytes.NewBufferString(body))
	if err != nil {
		return nil, 0, err
	}
	defer func() {
		err := resp.Body.Close()
		Expect(err).NotTo(HaveOccurred())
	}()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, resp.StatusCode, nil
	}

	var respondResp responderapi.RespondResponse
	if err := json.Unmarshal(data, &respondResp); err != nil {
		return nil, resp.StatusCode, err
	}
	return &respondResp, resp.StatusCode, nil
}

var _ = Describe("Simulator", func() {

	It("Should return the mapped response when a word matches a keyword", func() {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		client, err := startServer(ctx)
		Expect(err).NotTo(HaveOccurred())

		resp, code, err := postRespond(client, `{"words": ["crash"]}`)
		Expect(err).NotTo(HaveOccurred())
		Expect(code).To(Equal(http.StatusOK))
		Expect(resp.Reply).To(Equal(crashResponse))
		Expect(resp.Matched).To(BeTrue())
		Expect(resp.Keyword).To(Equal("crash"))
		Expect(resp.Object).To(Equal("helpdesk.reply"))
		Expect(resp.ID).NotTo(BeEmpty())
	})

	It("Should extract the word set from a free text message", func() {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		client, err := startServer(ctx)
		Expect(err).NotTo(HaveOccurred())

		resp, code, err := postRespond(client,
			`{"message": "My computer crashes all the time, please help!"}`)
		Expect(err).NotTo(HaveOccurred())
		Expect(code).To(Equal(http.StatusOK))
		Expect(resp.Matched).To(BeTrue())
		Expect(resp.Keyword).To(Equal("crashes"))
	})

	It("Should return a default response when no word matches", func() {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		client, err := startServer(ctx)
		Expect(err).NotTo(HaveOccurred())

		resp, code, err := postRespond(client, `{"words": ["printer", "smoke"]}`)
		Expect(err).NotTo(HaveOccurred())
		Expect(code).To(Equal(http.StatusOK))
		Expect(resp.Matched).To(BeFalse())
		Expect(resp.Keyword).To(BeEmpty())
		Expect(defaultResponses).To(ContainElement(resp.Reply))
	})

	It("Should reject a request without message and words", func() {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		client, err := startServer(ctx)
		Expect(err).NotTo(HaveOccurred())

		_, code, err := postRespond(client, `{}`)
		Expect(err).NotTo(HaveOccurred())
		Expect(code).To(Equal(http.StatusBadRequest))
	})

	It("Should serve the synthetic fallback when the response files are missing", func() {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		tempDir := GinkgoT().TempDir()
		client, err := startServerWithArgs(ctx, []string{"cmd",
			"--responses-file", tempDir + "/no-such-responses.txt",
			"--default-responses-file", tempDir + "/no-such-defaults.txt",
			"--seed", "100"})
		Expect(err).NotTo(HaveOccurred())

		resp, code, err := postRespond(client, `{"words": ["crash"]}`)
		Expect(err).NotTo(HaveOccurred())
		Expect(code).To(Equal(http.StatusOK))
		Expect(resp.Matched).To(BeFalse())
		Expect(resp.Reply).To(Equal(responder.FallbackResponse))
	})

	It("Should list the known keywords in sorted order", func() {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		client, err := startServer(ctx)
		Expect(err).NotTo(HaveOccurred())

		resp, err := client.Get(baseURL + "/v1/keywords")
		Expect(err).NotTo(HaveOccurred())
		defer func() {
			err := resp.Body.Close()
			Expect(err).NotTo(HaveOccurred())
		}()
		Expect(resp.StatusCode).To(Equal(http.StatusOK))

		data, err := io.ReadAll(resp.Body)
		Expect(err).NotTo(HaveOccurred())

		var keywordsResp responderapi.KeywordsResponse
		err = json.Unmarshal(data, &keywordsResp)
		Expect(err).NotTo(HaveOccurred())
		Expect(keywordsResp.Object).To(Equal("list"))
		Expect(keywordsResp.Count).To(Equal(4))
		Expect(keywordsResp.Keywords).To(Equal([]string{"bug", "crash", "crashes", "slow"}))
	})

	It("Should extract word sets on the tokenize endpoint", func() {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		client, err := startServer(ctx)
		Expect(err).NotTo(HaveOccurred())

		resp, err := client.Post(baseURL+"/tokenize", "application/json",
			bytes.NewBufferString(`{"text": "It crashed, it CRASHED again!"}`))
		Expect(err).NotTo(HaveOccurred())
		defer func() {
			err := resp.Body.Close()
			Expect(err).NotTo(HaveOccurred())
		}()
		Expect(resp.StatusCode).To(Equal(http.StatusOK))

		data, err := io.ReadAll(resp.Body)
		Expect(err).NotTo(HaveOccurred())

		var tokenizeResp responderapi.TokenizeResponse
		err = json.Unmarshal(data, &tokenizeResp)
		Expect(err).NotTo(HaveOccurred())
		Expect(tokenizeResp.Count).To(Equal(3))
		Expect(tokenizeResp.Words).To(Equal([]string{"it", "crashed", "again"}))
	})

	It("Should respond to health and readiness checks", func() {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		client, err := startServer(ctx)
		Expect(err).NotTo(HaveOccurred())

		for _, path := range []string{"/health", "/ready"} {
			resp, err := client.Get(baseURL + path)
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(http.StatusOK))
			data, err := io.ReadAll(resp.Body)
			Expect(err).NotTo(HaveOccurred())
			Expect(string(data)).To(Equal("{}"))
			err = resp.Body.Close()
			Expect(err).NotTo(HaveOccurred())
		}
	})
})
