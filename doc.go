// Package userrequests implements a small helpdesk service: users sign
// up and submit support requests, admins review and resolve them.
//
// Authentication:
//   - Auther handles registration and credential checks. Passwords are
//     stored as bcrypt hashes, access tokens are HS256 JWTs minted by
//     TokenServiceImpl and verified through the jwtware guard chain.
//   - Role gating is declarative. Routes carry an AccessPolicy and the
//     guard admits, rejects, or bypasses before handlers run.
//
// Request lifecycle:
//   - Applications start active and move to resolved exactly once. The
//     transition is a conditional update so concurrent resolvers cannot
//     both win, and the losing call reports the request as already
//     resolved.
//   - Every accepted submission and every resolution sends one email
//     through a Notifier. Delivery is best effort: failures are logged,
//     never rolled back.
package userrequests
