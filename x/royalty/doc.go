/*
Package royalty implements a registry of royalty information for tokens
traded on the marketplace.

A TokenRoyalty record declares the seller fee and the ordered list of
creators with their integer percentage shares. Records are keyed by the
token ID. The x/settlement extension resolves the record of the token
being paid for, an absent record means no royalty applies.

Creator shares must sum to exactly one hundred. This is enforced when a
record is created or updated, so that settlement never has to apportion
against an over or under allocated creator list.
*/
package royalty
