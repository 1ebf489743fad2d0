package github

// CommitDoc is the partial commit document with the fields we read
type CommitDoc struct {
	SHA    string `json:"sha"`
	Commit struct {
		Message      string        `json:"message"`
		Verification *Verification `json:"verification"`
	} `json:"commit"`
}

// Verification is the signature block GitHub attaches to a commit.
// Payload and Signature are pointers so null and absent stay distinguishable from "".
type Verification struct {
	Verified  bool    `json:"verified"`
	Reason    string  `json:"reason"`
	Payload   *string `json:"payload"`
	Signature *string `json:"signature"`
}
